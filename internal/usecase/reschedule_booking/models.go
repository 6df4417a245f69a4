package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель прямого переноса администратором
type Request struct {
	BookingID int64
	Date      time.Time
	StartTime types.TimeString
}

// Response перенесенное бронирование и запись в истории переносов
type Response struct {
	Booking *domain.Booking
	History *domain.RescheduleRequest
}
