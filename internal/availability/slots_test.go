package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	day      = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	dayAfter = day.AddDate(0, 0, 1)
)

func openWindow(open, close int) domain.EffectiveWindow {
	return domain.EffectiveWindow{Enabled: true, OpenMinute: open, CloseMinute: close}
}

func TestGenerateSlots_MorningWindow(t *testing.T) {
	slots := GenerateSlots(SlotParams{
		Date:            dayAfter,
		DurationMinutes: 30,
		Window:          openWindow(540, 720),
		Now:             day.Add(8 * time.Hour),
	})

	assert.Equal(t, []int{540, 570, 600, 630, 660, 690}, slots.Morning)
	assert.Empty(t, slots.Afternoon)
	assert.Empty(t, slots.Evening)
}

func TestGenerateSlots_TodaySkipsStartedSlots(t *testing.T) {
	now := day.Add(14*time.Hour + 5*time.Minute)

	slots := GenerateSlots(SlotParams{
		Date:            day,
		DurationMinutes: 30,
		Window:          openWindow(540, 1200),
		Now:             now,
	})

	all := slots.All()
	for _, s := range all {
		assert.Greater(t, s, 14*60+5)
	}
	assert.Equal(t, 870, all[0])
	assert.Empty(t, slots.Morning)
}

func TestGenerateSlots_TodayExactMinuteIsExcluded(t *testing.T) {
	slots := GenerateSlots(SlotParams{
		Date:            day,
		DurationMinutes: 30,
		Window:          openWindow(540, 720),
		Now:             day.Add(10 * time.Hour),
	})

	assert.Equal(t, []int{630, 660, 690}, slots.Morning)
}

func TestGenerateSlots_PastDate(t *testing.T) {
	slots := GenerateSlots(SlotParams{
		Date:            day,
		DurationMinutes: 30,
		Window:          openWindow(540, 1200),
		Now:             dayAfter.Add(time.Hour),
	})

	assert.Zero(t, slots.Total())
	assert.NotNil(t, slots.Morning)
}

func TestGenerateSlots_Buckets(t *testing.T) {
	slots := GenerateSlots(SlotParams{
		Date:            dayAfter,
		DurationMinutes: 60,
		Window:          openWindow(660, 1200),
		Now:             day,
	})

	assert.Equal(t, []int{660, 690}, slots.Morning)
	assert.Equal(t, []int{720, 750, 780, 810, 840, 870, 900, 930, 960, 990, 1020, 1050}, slots.Afternoon)
	assert.Equal(t, []int{1080, 1110, 1140}, slots.Evening)
}

func TestGenerateSlots_StepDoesNotFollowDuration(t *testing.T) {
	slots := GenerateSlots(SlotParams{
		Date:            dayAfter,
		DurationMinutes: 90,
		Window:          openWindow(540, 720),
		Now:             day,
	})

	assert.Equal(t, []int{540, 570, 600, 630}, slots.Morning)
}

func TestGenerateSlots_ReservationsBlockOverlaps(t *testing.T) {
	cancelledAt := day
	reservations := []*domain.Booking{
		{ID: 1, StartMinute: 600, DurationMinutes: 60},
		{ID: 2, StartMinute: 540, DurationMinutes: 30, CancelledAt: &cancelledAt},
	}

	slots := GenerateSlots(SlotParams{
		Date:            dayAfter,
		DurationMinutes: 30,
		Window:          openWindow(540, 720),
		Reservations:    reservations,
		Now:             day,
	})

	// 10:00-11:00 занято, 09:00 свободно, потому что бронь отменена
	assert.Equal(t, []int{540, 570, 660, 690}, slots.Morning)
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	slots := GenerateSlots(SlotParams{
		Date:            dayAfter,
		DurationMinutes: 30,
		Window:          domain.ClosedWindow(domain.SourceGlobalWeekday),
		ManualSlots: []*domain.ManualSlot{
			{ID: 1, Date: dayAfter, Minute: 600, Available: true},
		},
		Now: day,
	})

	assert.Zero(t, slots.Total())
}

func TestGenerateSlots_ManualSlots(t *testing.T) {
	slots := GenerateSlots(SlotParams{
		Date:            dayAfter,
		DurationMinutes: 30,
		Window:          openWindow(540, 600),
		Reservations: []*domain.Booking{
			{ID: 1, StartMinute: 1290, DurationMinutes: 30},
		},
		ManualSlots: []*domain.ManualSlot{
			{ID: 1, Date: dayAfter, Minute: 1200, Available: true},
			{ID: 2, Date: dayAfter, Minute: 540, Available: true},
			{ID: 3, Date: dayAfter, Minute: 480, Available: false},
			{ID: 4, Date: dayAfter, Minute: 1290, Available: true},
			{ID: 5, Date: day, Minute: 900, Available: true},
		},
		Now: day,
	})

	// вне окна, но добавлен вручную; дубль 09:00 схлопнут; занятый слот отброшен
	assert.Equal(t, []int{540, 570}, slots.Morning)
	assert.Empty(t, slots.Afternoon)
	assert.Equal(t, []int{1200}, slots.Evening)
}

func TestGenerateSlots_Horizon(t *testing.T) {
	horizon := &domain.YearMonth{Year: 2025, Month: time.June}

	inside := GenerateSlots(SlotParams{
		Date:            time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Window:          openWindow(540, 600),
		Horizon:         horizon,
		Now:             day,
	})
	assert.Equal(t, 2, inside.Total())

	outside := GenerateSlots(SlotParams{
		Date:            time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Window:          openWindow(540, 600),
		Horizon:         horizon,
		Now:             day,
	})
	assert.Zero(t, outside.Total())
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	params := SlotParams{
		Date:            dayAfter,
		DurationMinutes: 45,
		Window:          openWindow(540, 1200),
		Reservations:    []*domain.Booking{{ID: 1, StartMinute: 700, DurationMinutes: 20}},
		Now:             day,
	}

	assert.Equal(t, GenerateSlots(params), GenerateSlots(params))
}
