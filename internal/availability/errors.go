package availability

import "errors"

var (
	// ErrInvalidWindow включенное окно с close <= open, день трактуется как закрытый
	ErrInvalidWindow = errors.New("availability: invalid operating window")
	// ErrConflict интервал пересекается с активным бронированием
	ErrConflict = errors.New("availability: interval conflicts with an existing booking")
	// ErrConflictingProfessionals услуги закреплены за разными мастерами, а мастер не выбран
	ErrConflictingProfessionals = errors.New("availability: services belong to different professionals")
)
