package manage_schedule

import (
	"context"

	scheduleModels "github.com/avdmitr/salon-booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSalonWeek(ctx context.Context) (*scheduleModels.WeekResponse, error)
	GetMasterWeek(ctx context.Context) (*scheduleModels.WeekResponse, error)
	UpdateSalonDay(ctx context.Context, req *scheduleModels.UpdateDayRequest) (*scheduleModels.DayResponse, error)
	UpdateMasterDay(ctx context.Context, req *scheduleModels.UpdateDayRequest) (*scheduleModels.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
