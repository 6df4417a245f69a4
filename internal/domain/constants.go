package domain

// Slot generation constants
const (
	// SlotStepMinutes шаг сетки кандидатов, не зависит от длительности услуги
	SlotStepMinutes = 30

	// Границы корзин слотов
	AfternoonStartMinute = 12 * 60
	EveningStartMinute   = 18 * 60

	// Окно по умолчанию, когда не настроено ни одного правила
	FallbackOpenMinute  = 9 * 60
	FallbackCloseMinute = 20 * 60
)

// Business validation constants
const (
	MaxNotesLength           = 500
	MaxResponseNoteLength    = 500
	MaxServicesPerBooking    = 20
	MaxServiceQuantity       = 10
	MaxManualSlotsInSettings = 500
	DaysPerWeek              = 7

	DefaultCancellationsLimit = 50
	MaxCancellationsLimit     = 200
)

// DirectRescheduleNote заметка в истории при прямом переносе администратором
const DirectRescheduleNote = "adjusted by professional"

// CancelledBookingNote заметка к запросам на перенос, отклоненным из-за отмены бронирования
const CancelledBookingNote = "booking cancelled"

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)
