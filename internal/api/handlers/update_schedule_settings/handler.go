package update_schedule_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidID           = "некорректный ID"
	msgInvalidData         = "некорректные данные расписания"
	msgSpecialDateNotFound = "исключение для даты не найдено"
	msgManualSlotNotFound  = "ручной слот не найден"
)

// HorizonResponse текущий горизонт бронирования
type HorizonResponse struct {
	LastMonth *string `json:"lastMonth"`
}

// Handler изменения настроек расписания, только для администратора
type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// BusinessHours PUT /api/v1/schedule-settings/business-hours
func (h *Handler) BusinessHours(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceBusinessHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule-settings/business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceBusinessHours(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "PUT /schedule-settings/business-hours", err)
		return
	}

	h.logger.Info("PUT /schedule-settings/business-hours - Business hours replaced: professional=%v", req.ProfessionalID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// SpecialDate PUT /api/v1/schedule-settings/special-dates
func (h *Handler) SpecialDate(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertSpecialDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule-settings/special-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertSpecialDate(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "PUT /schedule-settings/special-dates", err)
		return
	}

	h.logger.Info("PUT /schedule-settings/special-dates - Special date saved: id=%d, date=%s", result.ID, result.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// DeleteSpecialDate DELETE /api/v1/schedule-settings/special-dates/{id}
func (h *Handler) DeleteSpecialDate(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /schedule-settings/special-dates/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteSpecialDate(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /schedule-settings/special-dates/{id}", err)
		return
	}

	h.logger.Info("DELETE /schedule-settings/special-dates/{id} - Special date deleted: id=%d", id)
	handlers.RespondNoContent(w)
}

// ManualSlot POST /api/v1/schedule-settings/manual-slots
func (h *Handler) ManualSlot(w http.ResponseWriter, r *http.Request) {
	var req models.CreateManualSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedule-settings/manual-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateManualSlot(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /schedule-settings/manual-slots", err)
		return
	}

	h.logger.Info("POST /schedule-settings/manual-slots - Manual slot created: id=%d, date=%s, time=%s",
		result.ID, result.Date, result.Time)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// DeleteManualSlot DELETE /api/v1/schedule-settings/manual-slots/{id}
func (h *Handler) DeleteManualSlot(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /schedule-settings/manual-slots/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteManualSlot(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /schedule-settings/manual-slots/{id}", err)
		return
	}

	h.logger.Info("DELETE /schedule-settings/manual-slots/{id} - Manual slot deleted: id=%d", id)
	handlers.RespondNoContent(w)
}

// Horizon PUT /api/v1/schedule-settings/horizon
func (h *Handler) Horizon(w http.ResponseWriter, r *http.Request) {
	var req models.SetHorizonRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule-settings/horizon - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	lastMonth, err := h.service.SetHorizon(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "PUT /schedule-settings/horizon", err)
		return
	}

	h.logger.Info("PUT /schedule-settings/horizon - Horizon set: %v", lastMonth)
	handlers.RespondJSON(w, http.StatusOK, HorizonResponse{LastMonth: lastMonth})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData+": "+err.Error())

	case errors.Is(err, schedule.ErrSpecialDateNotFound):
		h.logger.Warn("%s - Special date not found", route)
		handlers.RespondNotFound(w, msgSpecialDateNotFound)

	case errors.Is(err, schedule.ErrManualSlotNotFound):
		h.logger.Warn("%s - Manual slot not found", route)
		handlers.RespondNotFound(w, msgManualSlotNotFound)

	default:
		h.logger.Error("%s - Failed to update schedule settings: error=%v", route, err)
		handlers.RespondInternalError(w)
	}
}
