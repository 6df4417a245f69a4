package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrBookingCancelled возвращается для отмененного бронирования
	ErrBookingCancelled = errors.New("reschedule_booking: booking is cancelled")

	// ErrInvalidDate возвращается, когда новое время в прошлом
	ErrInvalidDate = errors.New("reschedule_booking: new time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
