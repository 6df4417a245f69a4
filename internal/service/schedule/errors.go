package schedule

import "errors"

var (
	// ErrSpecialDateNotFound возвращается, когда исключение для даты не найдено
	ErrSpecialDateNotFound = errors.New("schedule: special date not found")

	// ErrManualSlotNotFound возвращается, когда ручной слот не найден
	ErrManualSlotNotFound = errors.New("schedule: manual slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
