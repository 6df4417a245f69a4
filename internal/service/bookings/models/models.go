package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Actor пользователь, выполняющий запрос
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// Request модели

// ListBookingsRequest фильтр списка бронирований для администратора
type ListBookingsRequest struct {
	ProfessionalID   *int64
	ClientID         *int64
	ServiceID        *int64
	DateFrom         *time.Time
	DateTo           *time.Time
	Time             *types.TimeString // точное время начала
	TimeFrom         *types.TimeString
	TimeTo           *types.TimeString
	IncludeCancelled bool
}

// ListCancellationsRequest фильтр списка отмен
type ListCancellationsRequest struct {
	CancelledBy    *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	BookingIDs     []int64
	ProfessionalID *int64
	Limit          int
}

// ListRescheduleRequestsRequest фильтр списка запросов на перенос
type ListRescheduleRequestsRequest struct {
	BookingIDs []int64
	Status     *string
}

// Response модели

// BookingServiceResponse услуга в бронировании
type BookingServiceResponse struct {
	ServiceID       int64   `json:"serviceId"`
	Quantity        int     `json:"quantity"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64                    `json:"id"`
	ClientID        int64                    `json:"clientId"`
	ProfessionalID  *int64                   `json:"professionalId,omitempty"`
	Date            string                   `json:"date"`      // "2025-10-15"
	StartTime       string                   `json:"startTime"` // "10:00"
	EndTime         string                   `json:"endTime"`
	DurationMinutes int                      `json:"durationMinutes"`
	Services        []BookingServiceResponse `json:"services"`
	TotalPrice      float64                  `json:"totalPrice"`
	Notes           *string                  `json:"notes,omitempty"`

	Cancelled   bool    `json:"cancelled"`
	CancelledBy *string `json:"cancelledBy,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancellationResponse запись об отмене
type CancellationResponse struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"bookingId"`
	CancelledBy    string    `json:"cancelledBy"`
	BookingDate    string    `json:"bookingDate"`
	StartTime      string    `json:"startTime"`
	ProfessionalID *int64    `json:"professionalId,omitempty"`
	ClientID       int64     `json:"clientId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CancellationListResponse список отмен
type CancellationListResponse struct {
	Cancellations []CancellationResponse `json:"cancellations"`
}

// RescheduleRequestResponse запрос на перенос
type RescheduleRequestResponse struct {
	ID            int64      `json:"id"`
	BookingID     int64      `json:"bookingId"`
	RequestedDate string     `json:"requestedDate"`
	RequestedTime string     `json:"requestedTime"`
	Status        string     `json:"status"`
	ClientNote    *string    `json:"clientNote,omitempty"`
	ResponseNote  *string    `json:"responseNote,omitempty"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// RescheduleRequestListResponse список запросов на перенос
type RescheduleRequestListResponse struct {
	Requests []RescheduleRequestResponse `json:"requests"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		ClientID:        b.ClientID,
		ProfessionalID:  b.ProfessionalID,
		Date:            b.Date.Format(domain.DateFormat),
		StartTime:       types.FromMinutes(b.StartMinute).String(),
		EndTime:         types.FromMinutes(b.EndMinute()).String(),
		DurationMinutes: b.DurationMinutes,
		Services:        make([]BookingServiceResponse, 0, len(b.Services)),
		TotalPrice:      b.TotalPrice(),
		Notes:           b.Notes,
		Cancelled:       b.IsCancelled(),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	for _, s := range b.Services {
		resp.Services = append(resp.Services, BookingServiceResponse{
			ServiceID:       s.ServiceID,
			Quantity:        s.Quantity,
			Name:            s.ServiceName,
			Price:           s.ServicePrice,
			DurationMinutes: s.DurationMinutes,
		})
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainCancellations конвертирует список отмен
func FromDomainCancellations(items []*domain.Cancellation) *CancellationListResponse {
	resp := &CancellationListResponse{
		Cancellations: make([]CancellationResponse, 0, len(items)),
	}

	for _, c := range items {
		resp.Cancellations = append(resp.Cancellations, CancellationResponse{
			ID:             c.ID,
			BookingID:      c.BookingID,
			CancelledBy:    string(c.CancelledBy),
			BookingDate:    c.BookingDate.Format(domain.DateFormat),
			StartTime:      types.FromMinutes(c.StartMinute).String(),
			ProfessionalID: c.ProfessionalID,
			ClientID:       c.ClientID,
			CreatedAt:      c.CreatedAt,
		})
	}

	return resp
}

// FromDomainRescheduleRequest конвертирует запрос на перенос
func FromDomainRescheduleRequest(r *domain.RescheduleRequest) *RescheduleRequestResponse {
	if r == nil {
		return nil
	}

	return &RescheduleRequestResponse{
		ID:            r.ID,
		BookingID:     r.BookingID,
		RequestedDate: r.RequestedDate.Format(domain.DateFormat),
		RequestedTime: types.FromMinutes(r.RequestedMinute).String(),
		Status:        string(r.Status),
		ClientNote:    r.ClientNote,
		ResponseNote:  r.ResponseNote,
		RespondedAt:   r.RespondedAt,
		CreatedAt:     r.CreatedAt,
	}
}

// FromDomainRescheduleRequests конвертирует список запросов на перенос
func FromDomainRescheduleRequests(items []*domain.RescheduleRequest) *RescheduleRequestListResponse {
	resp := &RescheduleRequestListResponse{
		Requests: make([]RescheduleRequestResponse, 0, len(items)),
	}

	for _, r := range items {
		if item := FromDomainRescheduleRequest(r); item != nil {
			resp.Requests = append(resp.Requests, *item)
		}
	}

	return resp
}
