package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody       = "некорректное тело запроса"
	msgInvalidDate              = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime              = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingUserID            = "отсутствует ID пользователя"
	msgSlotNotAvailable         = "выбранное время пересекается с другим бронированием"
	msgServiceNotFound          = "услуга не найдена"
	msgProfessionalNotFound     = "мастер не найден"
	msgConflictingProfessionals = "выбранные услуги выполняют разные мастера"
	msgInvalidBookingDate       = "дата бронирования в прошлом"
	msgTooLateToBook            = "слишком поздно для бронирования этого времени"
	msgBeyondHorizon            = "запись на эту дату еще не открыта"
	msgOutsideWorkingHours      = "выбранное время вне рабочих часов"
	msgInvalidInput             = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		var pe *parseError
		if errors.As(err, &pe) && pe.field == "startTime" {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondBookingConflict(w, err, msgSlotNotAvailable) {
			h.logger.Warn("POST /bookings - Slot not available: client_id=%d, date=%s, time=%s: %v",
				clientID, req.Date, req.StartTime, err)
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: client_id=%d: %v", clientID, err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrProfessionalNotFound):
			h.logger.Warn("POST /bookings - Professional not found: client_id=%d, professional_id=%v", clientID, req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createBooking.ErrConflictingProfessionals):
			h.logger.Warn("POST /bookings - Conflicting professionals: client_id=%d", clientID)
			handlers.RespondBadRequest(w, msgConflictingProfessionals)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: client_id=%d, date=%s", clientID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: client_id=%d, date=%s, time=%s", clientID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrBeyondHorizon):
			h.logger.Warn("POST /bookings - Beyond horizon: client_id=%d, date=%s", clientID, req.Date)
			handlers.RespondBadRequest(w, msgBeyondHorizon)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: client_id=%d, date=%s, time=%s", clientID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%d: %v", clientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d",
		result.Booking.ID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
