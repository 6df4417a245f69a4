package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID       int64                    // ID клиента
	Services       []domain.ServiceQuantity // Услуги с количеством
	ProfessionalID *int64                   // Мастер (опционально)
	Date           time.Time                // Дата бронирования (без времени)
	StartTime      types.TimeString         // Время начала (например, "10:00")
	Notes          *string                  // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
