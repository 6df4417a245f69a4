package availability

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ConflictError интервал пересекается с бронированием ReservationID
type ConflictError struct {
	ReservationID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: booking id=%d", ErrConflict, e.ReservationID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// FindConflict возвращает первое активное бронирование, пересекающееся с [start, start+duration)
// Отмененные бронирования и excludeID пропускаются
func FindConflict(start, duration int, reservations []*domain.Booking, excludeID *int64) *domain.Booking {
	end := start + duration
	for _, r := range reservations {
		if r == nil || !r.IsActive() {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if types.IntervalsOverlap(start, end, r.StartMinute, r.EndMinute()) {
			return r
		}
	}
	return nil
}
