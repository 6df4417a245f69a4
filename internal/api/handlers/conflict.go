package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
)

const msgConcurrentModification = "расписание изменилось, повторите попытку"

// ConflictResponse 409 с id пересекающегося бронирования
type ConflictResponse struct {
	Code                 int    `json:"code"`
	Message              string `json:"message"`
	ConflictingBookingID *int64 `json:"conflictingBookingId,omitempty"`
}

// RespondBookingConflict отвечает 409, если ошибка означает пересечение интервалов
// или откат параллельной транзакции. Возвращает false для остальных ошибок
func RespondBookingConflict(w http.ResponseWriter, err error, message string) bool {
	var conflictErr *availability.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		id := conflictErr.ReservationID
		RespondJSON(w, http.StatusConflict, ConflictResponse{
			Code:                 http.StatusConflict,
			Message:              message,
			ConflictingBookingID: &id,
		})
		return true

	case errors.Is(err, availability.ErrConflict):
		RespondConflict(w, message)
		return true

	case errors.Is(err, conflicts.ErrConcurrentModification):
		RespondConflict(w, msgConcurrentModification)
		return true
	}
	return false
}
