package availability

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Strategy одно правило в цепочке приоритетов
// Pick возвращает false, если правило для даты не настроено
type Strategy struct {
	Source domain.WindowSource
	Pick   func(rules domain.ScheduleRules) (domain.EffectiveWindow, bool)
}

var precedence = []Strategy{
	{Source: domain.SourceProfessionalSpecial, Pick: pickProfessionalSpecial},
	{Source: domain.SourceGlobalSpecial, Pick: pickGlobalSpecial},
	{Source: domain.SourceProfessionalWeekday, Pick: pickProfessionalWeekday},
	{Source: domain.SourceGlobalWeekday, Pick: pickGlobalWeekday},
	{Source: domain.SourceFallback, Pick: pickFallback},
}

// Precedence порядок правил от самого приоритетного к fallback
func Precedence() []Strategy {
	out := make([]Strategy, len(precedence))
	copy(out, precedence)
	return out
}

// ResolveWindow вычисляет рабочее окно на дату: побеждает первое настроенное правило
// Если победившее правило включено, но close <= open, возвращается закрытое окно и ErrInvalidWindow
func ResolveWindow(rules domain.ScheduleRules) (domain.EffectiveWindow, error) {
	for _, s := range precedence {
		w, ok := s.Pick(rules)
		if !ok {
			continue
		}
		w.Source = s.Source

		if !w.Enabled {
			return domain.ClosedWindow(s.Source), nil
		}
		if w.CloseMinute <= w.OpenMinute {
			return domain.ClosedWindow(s.Source), fmt.Errorf("%w: %s open=%d close=%d",
				ErrInvalidWindow, s.Source, w.OpenMinute, w.CloseMinute)
		}
		return w, nil
	}

	// fallback всегда срабатывает, сюда не попадаем
	return domain.ClosedWindow(domain.SourceFallback), nil
}

func fromSpecial(o *domain.SpecialDateOverride) (domain.EffectiveWindow, bool) {
	if o == nil {
		return domain.EffectiveWindow{}, false
	}
	return domain.EffectiveWindow{Enabled: o.Enabled, OpenMinute: o.OpenMinute, CloseMinute: o.CloseMinute}, true
}

func fromWeekday(w *domain.OperatingWindow) (domain.EffectiveWindow, bool) {
	if w == nil {
		return domain.EffectiveWindow{}, false
	}
	return domain.EffectiveWindow{Enabled: w.Enabled, OpenMinute: w.OpenMinute, CloseMinute: w.CloseMinute}, true
}

func pickProfessionalSpecial(r domain.ScheduleRules) (domain.EffectiveWindow, bool) {
	return fromSpecial(r.ProfessionalSpecial)
}

func pickGlobalSpecial(r domain.ScheduleRules) (domain.EffectiveWindow, bool) {
	return fromSpecial(r.GlobalSpecial)
}

func pickProfessionalWeekday(r domain.ScheduleRules) (domain.EffectiveWindow, bool) {
	return fromWeekday(r.ProfessionalWeekday)
}

func pickGlobalWeekday(r domain.ScheduleRules) (domain.EffectiveWindow, bool) {
	return fromWeekday(r.GlobalWeekday)
}

func pickFallback(domain.ScheduleRules) (domain.EffectiveWindow, bool) {
	return domain.EffectiveWindow{
		Enabled:     true,
		OpenMinute:  domain.FallbackOpenMinute,
		CloseMinute: domain.FallbackCloseMinute,
	}, true
}
