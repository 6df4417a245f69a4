package request_reschedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса клиента на перенос
type Request struct {
	UserID    int64
	IsAdmin   bool
	BookingID int64
	Date      time.Time
	StartTime types.TimeString
	Note      *string
}
