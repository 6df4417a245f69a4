package request_reschedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	requestReschedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/request_reschedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RequestRescheduleRequest HTTP request model
type RequestRescheduleRequest struct {
	Date      string  `json:"date"`      // "2025-10-15"
	StartTime string  `json:"startTime"` // "10:00"
	Note      *string `json:"note,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RequestRescheduleRequest) ToUseCaseRequest(bookingID, userID int64, isAdmin bool) (*requestReschedule.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &requestReschedule.Request{
		UserID:    userID,
		IsAdmin:   isAdmin,
		BookingID: bookingID,
		Date:      date,
		StartTime: startTime,
		Note:      r.Note,
	}, nil
}
