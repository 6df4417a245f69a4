package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date           time.Time     // Дата (в часовом поясе бизнеса)
	ServiceIDs     []int64       // Выбранные услуги
	Quantities     map[int64]int // Количество по id услуги, без записи считается 1
	ProfessionalID *int64        // Мастер (опционально)
}

// Response модель ответа со слотами, разложенными по частям дня
type Response struct {
	Date            time.Time
	ProfessionalID  *int64 // Явный или выведенный из услуг мастер
	DurationMinutes int
	Window          domain.EffectiveWindow
	Slots           domain.DaySlots
}
