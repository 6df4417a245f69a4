package update_schedule_settings

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceBusinessHours(ctx context.Context, req *models.ReplaceBusinessHoursRequest) ([]models.BusinessHoursResponse, error)
	UpsertSpecialDate(ctx context.Context, req *models.UpsertSpecialDateRequest) (*models.SpecialDateResponse, error)
	DeleteSpecialDate(ctx context.Context, id int64) error
	CreateManualSlot(ctx context.Context, req *models.CreateManualSlotRequest) (*models.ManualSlotResponse, error)
	DeleteManualSlot(ctx context.Context, id int64) error
	SetHorizon(ctx context.Context, req *models.SetHorizonRequest) (*string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
