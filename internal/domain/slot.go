package domain

// DaySlots доступные времена начала за день, разбитые на части дня
// Значения в минутах от полуночи, по возрастанию
type DaySlots struct {
	Morning   []int
	Afternoon []int
	Evening   []int
}

// Total общее количество слотов
func (s DaySlots) Total() int {
	return len(s.Morning) + len(s.Afternoon) + len(s.Evening)
}

// All все слоты одним списком по возрастанию
func (s DaySlots) All() []int {
	all := make([]int, 0, s.Total())
	all = append(all, s.Morning...)
	all = append(all, s.Afternoon...)
	all = append(all, s.Evening...)
	return all
}

// Contains проверяет, что минута есть среди слотов
func (s DaySlots) Contains(minute int) bool {
	for _, m := range s.All() {
		if m == minute {
			return true
		}
	}
	return false
}

// DayPreview превью дня: итоговое окно и слоты
// Кэшируется целиком, чтобы ответ из кэша совпадал с вычисленным
type DayPreview struct {
	Window EffectiveWindow
	Slots  DaySlots
}
