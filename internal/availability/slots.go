package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotParams входные данные генератора слотов
// Reservations и ManualSlots уже отфильтрованы вызывающим по дате и мастеру
type SlotParams struct {
	Date            time.Time
	DurationMinutes int
	Window          domain.EffectiveWindow
	Reservations    []*domain.Booking
	ManualSlots     []*domain.ManualSlot
	Horizon         *domain.YearMonth
	Now             time.Time // в часовом поясе бизнеса
}

// GenerateSlots вычисляет доступные времена начала на дату
func GenerateSlots(p SlotParams) domain.DaySlots {
	empty := domain.DaySlots{Morning: []int{}, Afternoon: []int{}, Evening: []int{}}

	if p.DurationMinutes <= 0 || !p.Window.Enabled {
		return empty
	}
	if isBeforeDay(p.Date, p.Now) {
		return empty
	}
	if p.Horizon != nil && p.Horizon.After(p.Date) {
		return empty
	}

	// Шаг 1: Кандидаты из окна с фиксированным шагом
	candidates := make(map[int]struct{})
	for start := p.Window.OpenMinute; start+p.DurationMinutes <= p.Window.CloseMinute; start += domain.SlotStepMinutes {
		candidates[start] = struct{}{}
	}

	// Шаг 2: Ручные слоты добавляются независимо от окна
	for _, ms := range p.ManualSlots {
		if ms == nil || !ms.Available || !domain.SameCalendarDay(ms.Date, p.Date) {
			continue
		}
		if ms.Minute < 0 || ms.Minute+p.DurationMinutes > types.MinutesPerDay {
			continue
		}
		candidates[ms.Minute] = struct{}{}
	}

	// Шаг 3: На сегодня отбрасываем слоты, которые уже начались
	cutoff := -1
	if domain.SameCalendarDay(p.Date, p.Now) {
		cutoff = domain.MinuteOfDay(p.Now)
	}

	starts := make([]int, 0, len(candidates))
	for start := range candidates {
		if start <= cutoff {
			continue
		}
		if FindConflict(start, p.DurationMinutes, p.Reservations, nil) != nil {
			continue
		}
		starts = append(starts, start)
	}
	sort.Ints(starts)

	// Шаг 4: Раскладываем по частям дня
	for _, start := range starts {
		switch {
		case start < domain.AfternoonStartMinute:
			empty.Morning = append(empty.Morning, start)
		case start < domain.EveningStartMinute:
			empty.Afternoon = append(empty.Afternoon, start)
		default:
			empty.Evening = append(empty.Evening, start)
		}
	}

	return empty
}

// isBeforeDay сравнивает только календарные даты
func isBeforeDay(date, now time.Time) bool {
	dy, dm, dd := date.Date()
	ny, nm, nd := now.Date()
	if dy != ny {
		return dy < ny
	}
	if dm != nm {
		return dm < nm
	}
	return dd < nd
}
