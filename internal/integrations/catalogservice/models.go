package catalogservice

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Service модель услуги из каталога
type Service struct {
	ID                        int64   `json:"id"`
	Name                      string  `json:"name"`
	Price                     float64 `json:"price"`
	DurationMinutes           int     `json:"duration_minutes"`
	ResponsibleProfessionalID *int64  `json:"responsible_professional_id,omitempty"`
}

// ToDomain конвертирует в доменную модель
func (s Service) ToDomain() domain.Service {
	return domain.Service{
		ID:                        s.ID,
		Name:                      s.Name,
		Price:                     s.Price,
		DurationMinutes:           s.DurationMinutes,
		ResponsibleProfessionalID: s.ResponsibleProfessionalID,
	}
}

// ServicesResponse ответ списка услуг
type ServicesResponse struct {
	Services []Service `json:"services"`
}

// Professional модель мастера из каталога
type Professional struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ToDomain конвертирует в доменную модель
func (p Professional) ToDomain() domain.Professional {
	return domain.Professional{ID: p.ID, Name: p.Name, Active: p.Active}
}
