package request_reschedule

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("request_reschedule: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("request_reschedule: access denied")

	// ErrBookingCancelled возвращается для отмененного бронирования
	ErrBookingCancelled = errors.New("request_reschedule: booking is cancelled")

	// ErrDuplicatePendingRequest возвращается, когда у бронирования уже есть ожидающий запрос
	ErrDuplicatePendingRequest = errors.New("request_reschedule: booking already has a pending request")

	// ErrInvalidDate возвращается, когда запрошенное время в прошлом
	ErrInvalidDate = errors.New("request_reschedule: requested time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_reschedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_reschedule: internal error")
)
