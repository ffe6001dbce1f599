package schedule

import (
	"context"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetSalonWeek(ctx context.Context) ([]*domain.ScheduleEntry, error)
	GetMasterWeek(ctx context.Context) ([]*domain.ScheduleEntry, error)
	UpsertSalonDay(ctx context.Context, entry *domain.ScheduleEntry) (*domain.ScheduleEntry, error)
	UpsertMasterDay(ctx context.Context, entry *domain.ScheduleEntry) (*domain.ScheduleEntry, error)
	GetBlockedByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
