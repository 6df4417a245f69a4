package get_schedule_settings

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgInvalidProfessionalID = "некорректный ID мастера"

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

// Handle GET /api/v1/schedule-settings
// Query params: professionalId (optional, без него глобальные часы)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := handlers.QueryInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /schedule-settings - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	result, err := h.service.GetSettings(r.Context(), professionalID)
	if err != nil {
		h.logger.Error("GET /schedule-settings - Failed to get settings: professional=%v, error=%v", professionalID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /schedule-settings - Settings retrieved: professional=%v, special_dates=%d, manual_slots=%d",
		professionalID, len(result.SpecialDates), len(result.ManualSlots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
