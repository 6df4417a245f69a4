package list_bookings

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ToServiceRequest формирует фильтр из query параметров
// professionalId, clientId, serviceId, dateFrom, dateTo, time, timeFrom, timeTo, includeCancelled
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	var err error
	if req.ProfessionalID, err = handlers.QueryInt64(r, "professionalId"); err != nil {
		return nil, err
	}
	if req.ClientID, err = handlers.QueryInt64(r, "clientId"); err != nil {
		return nil, err
	}
	if req.ServiceID, err = handlers.QueryInt64(r, "serviceId"); err != nil {
		return nil, err
	}
	if req.DateFrom, err = parseDate(r, "dateFrom"); err != nil {
		return nil, err
	}
	if req.DateTo, err = parseDate(r, "dateTo"); err != nil {
		return nil, err
	}
	if req.Time, err = parseTime(r, "time"); err != nil {
		return nil, err
	}
	if req.TimeFrom, err = parseTime(r, "timeFrom"); err != nil {
		return nil, err
	}
	if req.TimeTo, err = parseTime(r, "timeTo"); err != nil {
		return nil, err
	}

	if raw := handlers.QueryString(r, "includeCancelled"); raw != nil {
		include, err := strconv.ParseBool(*raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}

func parseDate(r *http.Request, name string) (*time.Time, error) {
	raw := handlers.QueryString(r, name)
	if raw == nil {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &date, nil
}

func parseTime(r *http.Request, name string) (*types.TimeString, error) {
	raw := handlers.QueryString(r, name)
	if raw == nil {
		return nil, nil
	}
	value, err := types.NewTimeStringFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &value, nil
}
