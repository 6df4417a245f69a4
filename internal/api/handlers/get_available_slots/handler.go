package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate              = "дата обязательна"
	msgInvalidDate              = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingServiceIDs        = "необходимо выбрать хотя бы одну услугу"
	msgInvalidServiceIDs        = "некорректный список услуг"
	msgInvalidQuantities        = "количество должно быть указано для каждой услуги"
	msgInvalidProfessionalID    = "некорректный ID мастера"
	msgServiceNotFound          = "услуга не найдена"
	msgConflictingProfessionals = "выбранные услуги выполняют разные мастера"
	msgInvalidInput             = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (required, YYYY-MM-DD), serviceIds (required, 1,2,3),
// quantities (optional, по позиции serviceIds), professionalId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	serviceIDs, err := handlers.QueryInt64List(r, "serviceIds")
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}
	if len(serviceIDs) == 0 {
		h.logger.Warn("GET /available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	rawQuantities, err := handlers.QueryInt64List(r, "quantities")
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid quantities: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuantities)
		return
	}
	quantities, err := ToQuantities(serviceIDs, rawQuantities)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid quantities: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuantities)
		return
	}

	professionalID, err := handlers.QueryInt64(r, "professionalId")
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, serviceIDs, quantities, professionalID)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrConflictingProfessionals):
			h.logger.Warn("GET /available-slots - Conflicting professionals: service_ids=%v", serviceIDs)
			handlers.RespondBadRequest(w, msgConflictingProfessionals)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /available-slots - Found %d slots: date=%s, professional=%v",
		response.Total, dateStr, result.ProfessionalID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
