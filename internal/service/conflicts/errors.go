package conflicts

import "errors"

var (
	// ErrInvalidInterval интервал выходит за пределы суток или имеет нулевую длительность
	ErrInvalidInterval = errors.New("conflicts: invalid interval")
	// ErrConcurrentModification транзакция откатилась из-за параллельной записи
	ErrConcurrentModification = errors.New("conflicts: concurrent modification")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("conflicts: internal error")
)
