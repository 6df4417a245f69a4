package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда часть услуг не найдена в каталоге
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrConflictingProfessionals возвращается, когда услуги закреплены за разными мастерами
	ErrConflictingProfessionals = errors.New("get_available_slots: services belong to different professionals")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
