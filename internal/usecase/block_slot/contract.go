package block_slot

import (
	"context"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetSalonDay(ctx context.Context, dayOfWeek int) (*domain.ScheduleEntry, error)
	GetMasterDay(ctx context.Context, dayOfWeek int) (*domain.ScheduleEntry, error)
	GetBlockedByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error)
	CreateBlocked(ctx context.Context, slot *domain.BlockedSlot) (*domain.BlockedSlot, error)
	DeleteBlocked(ctx context.Context, date time.Time, slotTime string) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByDate(ctx context.Context, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
