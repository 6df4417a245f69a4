package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда часть услуг не найдена в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrProfessionalNotFound возвращается, когда выбранный мастер не найден или не работает
	ErrProfessionalNotFound = errors.New("create_booking: professional not found")

	// ErrConflictingProfessionals возвращается, когда услуги закреплены за разными мастерами
	ErrConflictingProfessionals = errors.New("create_booking: services belong to different professionals")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrTooLateToBook возвращается, когда время начала сегодня уже прошло
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrBeyondHorizon возвращается, когда дата позже последнего открытого месяца
	ErrBeyondHorizon = errors.New("create_booking: date is beyond the booking horizon")

	// ErrOutsideWorkingHours возвращается, когда интервал не попадает в рабочее окно и не совпадает с ручным слотом
	ErrOutsideWorkingHours = errors.New("create_booking: time is outside working hours")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
