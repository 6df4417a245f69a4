package list_reschedule_requests

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidBookingIDs = "некорректный список бронирований"
	msgInvalidStatus     = "status должен быть pending, approved или denied"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reschedule-requests
// Query params: bookingIds (1,2,3), status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingIDs, err := handlers.QueryInt64List(r, "bookingIds")
	if err != nil {
		h.logger.Warn("GET /reschedule-requests - Invalid booking IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingIDs)
		return
	}

	result, err := h.service.ListRescheduleRequests(r.Context(), &models.ListRescheduleRequestsRequest{
		BookingIDs: bookingIDs,
		Status:     handlers.QueryString(r, "status"),
	})
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /reschedule-requests - Invalid status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /reschedule-requests - Failed to list requests: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reschedule-requests - Requests retrieved successfully: count=%d", len(result.Requests))
	handlers.RespondJSON(w, http.StatusOK, result)
}
