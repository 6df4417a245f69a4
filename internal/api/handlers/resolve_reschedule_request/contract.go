package resolve_reschedule_request

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	resolveRequest "github.com/m04kA/SMC-AppointmentService/internal/usecase/resolve_reschedule_request"
)

type ResolveRequestUseCase interface {
	Execute(ctx context.Context, req *resolveRequest.Request) (*domain.RescheduleRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
