package request_reschedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	requestReschedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/request_reschedule"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgBookingCancelled   = "бронирование отменено"
	msgDuplicatePending   = "по бронированию уже есть запрос на перенос"
	msgPastTime           = "новое время уже прошло"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase RequestRescheduleUseCase
	logger  Logger
}

func NewHandler(useCase RequestRescheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reschedule-requests
// Клиент просит перенести бронирование, интервал проверяется при одобрении
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule-requests - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/reschedule-requests - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RequestRescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule-requests - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondBookingConflict(w, err, msgDuplicatePending) {
			h.logger.Warn("POST /bookings/{id}/reschedule-requests - Concurrent modification: booking_id=%d", bookingID)
			return
		}

		switch {
		case errors.Is(err, requestReschedule.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule-requests - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, requestReschedule.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/reschedule-requests - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requestReschedule.ErrBookingCancelled):
			h.logger.Warn("POST /bookings/{id}/reschedule-requests - Booking cancelled: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingCancelled)

		case errors.Is(err, requestReschedule.ErrDuplicatePendingRequest):
			h.logger.Warn("POST /bookings/{id}/reschedule-requests - Duplicate pending request: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgDuplicatePending)

		case errors.Is(err, requestReschedule.ErrInvalidDate):
			h.logger.Warn("POST /bookings/{id}/reschedule-requests - Past time: booking_id=%d, date=%s, time=%s", bookingID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgPastTime)

		case errors.Is(err, requestReschedule.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/reschedule-requests - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/reschedule-requests - Failed to create request: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/reschedule-requests - Request created: request_id=%d, booking_id=%d",
		result.ID, bookingID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainRescheduleRequest(result))
}
