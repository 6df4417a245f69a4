package list_reschedule_requests

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type BookingService interface {
	ListRescheduleRequests(ctx context.Context, req *models.ListRescheduleRequestsRequest) (*models.RescheduleRequestListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
