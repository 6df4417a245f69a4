package list_cancellations

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// ToServiceRequest формирует фильтр журнала отмен из query параметров
// cancelledBy, createdFrom, createdTo (RFC3339 или YYYY-MM-DD), bookingIds, professionalId, limit
func ToServiceRequest(r *http.Request) (*models.ListCancellationsRequest, error) {
	req := &models.ListCancellationsRequest{
		CancelledBy: handlers.QueryString(r, "cancelledBy"),
	}

	var err error
	if req.CreatedFrom, err = parseInstant(r, "createdFrom", false); err != nil {
		return nil, err
	}
	if req.CreatedTo, err = parseInstant(r, "createdTo", true); err != nil {
		return nil, err
	}
	if req.BookingIDs, err = handlers.QueryInt64List(r, "bookingIds"); err != nil {
		return nil, err
	}
	if req.ProfessionalID, err = handlers.QueryInt64(r, "professionalId"); err != nil {
		return nil, err
	}

	if raw := handlers.QueryString(r, "limit"); raw != nil {
		limit, err := strconv.Atoi(*raw)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
		req.Limit = limit
	}

	return req, nil
}

// parseInstant принимает RFC3339 или дату; дата в конце диапазона означает конец дня
func parseInstant(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	raw := handlers.QueryString(r, name)
	if raw == nil {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}

	date, err := time.Parse(domain.DateFormat, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected RFC3339 or YYYY-MM-DD", name)
	}
	if endOfDay {
		date = date.Add(24*time.Hour - time.Nanosecond)
	}
	return &date, nil
}
