package resolve_reschedule_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	resolveRequest "github.com/m04kA/SMC-AppointmentService/internal/usecase/resolve_reschedule_request"
)

const (
	msgInvalidRequestID   = "некорректный ID запроса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgRequestNotFound    = "запрос на перенос не найден"
	msgAlreadyProcessed   = "запрос уже обработан"
	msgBookingNotFound    = "бронирование не найдено"
	msgBookingCancelled   = "бронирование отменено"
	msgSlotNotAvailable   = "запрошенное время пересекается с другим бронированием"
	msgInvalidInput       = "action должен быть approve или deny"
)

type Handler struct {
	useCase ResolveRequestUseCase
	logger  Logger
}

func NewHandler(useCase ResolveRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reschedule-requests/{requestId}
// Решение администратора по запросу на перенос
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID, err := handlers.PathInt64(r, "requestId")
	if err != nil {
		h.logger.Warn("PUT /reschedule-requests/{id} - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req ResolveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reschedule-requests/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(requestID))
	if err != nil {
		if handlers.RespondBookingConflict(w, err, msgSlotNotAvailable) {
			h.logger.Warn("PUT /reschedule-requests/{id} - Slot not available: request_id=%d: %v", requestID, err)
			return
		}

		switch {
		case errors.Is(err, resolveRequest.ErrRequestNotFound):
			h.logger.Warn("PUT /reschedule-requests/{id} - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, resolveRequest.ErrAlreadyProcessed):
			h.logger.Warn("PUT /reschedule-requests/{id} - Already processed: request_id=%d", requestID)
			handlers.RespondConflict(w, msgAlreadyProcessed)

		case errors.Is(err, resolveRequest.ErrBookingNotFound):
			h.logger.Warn("PUT /reschedule-requests/{id} - Booking not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, resolveRequest.ErrBookingCancelled):
			h.logger.Warn("PUT /reschedule-requests/{id} - Booking cancelled: request_id=%d", requestID)
			handlers.RespondConflict(w, msgBookingCancelled)

		case errors.Is(err, resolveRequest.ErrInvalidInput):
			h.logger.Warn("PUT /reschedule-requests/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /reschedule-requests/{id} - Failed to resolve request: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /reschedule-requests/{id} - Request resolved: request_id=%d, status=%s", requestID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainRescheduleRequest(result))
}
