package domain

import (
	"fmt"
	"time"
)

// OperatingWindow рабочие часы по дню недели
// Одна запись на день недели в рамках области: глобальной (ProfessionalID = nil) или мастера
type OperatingWindow struct {
	ID             int64
	Weekday        time.Weekday // 0 = воскресенье
	Enabled        bool
	OpenMinute     int
	CloseMinute    int
	ProfessionalID *int64
}

// SpecialDateOverride исключение для конкретной даты, приоритетнее дня недели
type SpecialDateOverride struct {
	ID             int64
	Date           time.Time
	Enabled        bool
	OpenMinute     int
	CloseMinute    int
	ProfessionalID *int64
	Note           *string
	CreatedAt      time.Time
}

// ManualSlot ручной слот, добавленный вне расписания
type ManualSlot struct {
	ID             int64
	Date           time.Time
	Minute         int
	ProfessionalID *int64
	Note           *string
	Available      bool
	CreatedAt      time.Time
}

// ScheduleRules все правила-кандидаты для пары (дата, мастер)
// Любое поле может быть nil, если правило не настроено
type ScheduleRules struct {
	ProfessionalSpecial *SpecialDateOverride
	GlobalSpecial       *SpecialDateOverride
	ProfessionalWeekday *OperatingWindow
	GlobalWeekday       *OperatingWindow
}

// WindowSource правило, которое определило итоговое окно
type WindowSource string

const (
	SourceProfessionalSpecial WindowSource = "professional_special_date"
	SourceGlobalSpecial       WindowSource = "global_special_date"
	SourceProfessionalWeekday WindowSource = "professional_weekday"
	SourceGlobalWeekday       WindowSource = "global_weekday"
	SourceFallback            WindowSource = "fallback"
)

// EffectiveWindow итоговое рабочее окно на дату
type EffectiveWindow struct {
	Enabled     bool
	OpenMinute  int
	CloseMinute int
	Source      WindowSource
}

// Contains проверяет, что интервал [start, start+duration) помещается в окно
func (w EffectiveWindow) Contains(start, duration int) bool {
	return w.Enabled && start >= w.OpenMinute && start+duration <= w.CloseMinute
}

// ClosedWindow закрытое окно
func ClosedWindow(source WindowSource) EffectiveWindow {
	return EffectiveWindow{Enabled: false, Source: source}
}

// YearMonth месяц горизонта бронирования
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth разбирает строку YYYY-MM
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(MonthFormat, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// String форматирует как YYYY-MM
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// LastDay последний день месяца в location
func (ym YearMonth) LastDay(loc *time.Location) time.Time {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, loc)
}

// After проверяет, что дата позже последнего дня месяца
func (ym YearMonth) After(date time.Time) bool {
	y, m, _ := date.Date()
	if y != ym.Year {
		return y > ym.Year
	}
	return m > ym.Month
}

// ScheduleSettings настройки расписания для администратора
type ScheduleSettings struct {
	BusinessHours []*OperatingWindow
	SpecialDates  []*SpecialDateOverride
	ManualSlots   []*ManualSlot
	Horizon       *YearMonth
}

// SameCalendarDay сравнивает даты без учета времени
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly обрезает время, сохраняя location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MinuteOfDay минуты от полуночи
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
