package schedule

import "errors"

var (
	// ErrSpecialDateNotFound возвращается, когда исключение для даты не найдено
	ErrSpecialDateNotFound = errors.New("schedule.repository: special date not found")

	// ErrManualSlotNotFound возвращается, когда ручной слот не найден
	ErrManualSlotNotFound = errors.New("schedule.repository: manual slot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
