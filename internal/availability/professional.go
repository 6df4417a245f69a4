package availability

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// InferProfessional определяет мастера для бронирования
// Явно выбранный мастер имеет приоритет. Иначе, если все услуги с ответственным
// мастером закреплены за одним, берется он. Разные мастера без явного выбора дают ErrConflictingProfessionals
func InferProfessional(explicit *int64, services []domain.Service) (*int64, error) {
	if explicit != nil {
		id := *explicit
		return &id, nil
	}

	var inferred *int64
	for _, s := range services {
		if s.ResponsibleProfessionalID == nil {
			continue
		}
		if inferred == nil {
			id := *s.ResponsibleProfessionalID
			inferred = &id
			continue
		}
		if *inferred != *s.ResponsibleProfessionalID {
			return nil, fmt.Errorf("%w: %d and %d", ErrConflictingProfessionals, *inferred, *s.ResponsibleProfessionalID)
		}
	}

	return inferred, nil
}
