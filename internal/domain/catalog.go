package domain

// Service услуга из каталога
type Service struct {
	ID                        int64
	Name                      string
	Price                     float64
	DurationMinutes           int
	ResponsibleProfessionalID *int64
}

// Professional мастер
type Professional struct {
	ID     int64
	Name   string
	Active bool
}

// ServiceQuantity запрошенная услуга с количеством
type ServiceQuantity struct {
	ServiceID int64
	Quantity  int
}

// TotalDuration сумма длительностей услуг с учетом количества
// quantities без записи для услуги считаются равными 1
func TotalDuration(services []Service, quantities map[int64]int) int {
	total := 0
	for _, s := range services {
		q := quantities[s.ID]
		if q <= 0 {
			q = 1
		}
		total += s.DurationMinutes * q
	}
	return total
}
