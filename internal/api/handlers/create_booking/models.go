package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ServiceItem услуга с количеством
type ServiceItem struct {
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Services       []ServiceItem `json:"services"`
	ProfessionalID *int64        `json:"professionalId,omitempty"`
	Date           string        `json:"date"`      // "2025-10-15"
	StartTime      string        `json:"startTime"` // "10:00"
	Notes          *string       `json:"notes,omitempty"`
}

type parseError struct {
	field string
	err   error
}

func (e *parseError) Error() string { return e.field + ": " + e.err.Error() }

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Количество по умолчанию 1
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, &parseError{field: "date", err: err}
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, &parseError{field: "startTime", err: err}
	}

	services := make([]domain.ServiceQuantity, 0, len(r.Services))
	for _, s := range r.Services {
		quantity := s.Quantity
		if quantity == 0 {
			quantity = 1
		}
		services = append(services, domain.ServiceQuantity{ServiceID: s.ServiceID, Quantity: quantity})
	}

	return &createBooking.Request{
		ClientID:       clientID,
		Services:       services,
		ProfessionalID: r.ProfessionalID,
		Date:           date,
		StartTime:      startTime,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *models.BookingResponse {
	return models.FromDomainBooking(resp.Booking)
}
