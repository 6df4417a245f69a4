package resolve_reschedule_request

import "errors"

var (
	// ErrRequestNotFound возвращается, когда запрос на перенос не найден
	ErrRequestNotFound = errors.New("resolve_reschedule_request: request not found")

	// ErrAlreadyProcessed возвращается, когда запрос уже одобрен или отклонен
	ErrAlreadyProcessed = errors.New("resolve_reschedule_request: request already processed")

	// ErrBookingNotFound возвращается, когда бронирование запроса не найдено
	ErrBookingNotFound = errors.New("resolve_reschedule_request: booking not found")

	// ErrBookingCancelled возвращается при одобрении переноса отмененного бронирования
	ErrBookingCancelled = errors.New("resolve_reschedule_request: booking is cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resolve_reschedule_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("resolve_reschedule_request: internal error")
)
