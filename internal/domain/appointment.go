package domain

import (
	"time"

	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// AppointmentStatus статус записи на прием
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// ActiveStatuses статусы записей, занимающих слот
// Используются при проверке конфликтов и подсчёте доступности
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// allowedTransitions допустимые переходы статусов
// Терминальные статусы (completed, cancelled, no_show) не имеют исходящих переходов
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

// Valid проверяет, что статус входит в закрытое множество
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal проверяет, что статус терминальный
func (s AppointmentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo проверяет допустимость перехода s -> next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment запись клиента на прием
type Appointment struct {
	ID        int64
	ClientID  int64
	ServiceID int64
	Date      time.Time
	StartTime types.TimeString
	Status    AppointmentStatus

	// Снимок данных услуги на момент записи: последующие правки
	// каталога не меняют существующие записи
	DurationMinutes int
	TotalPrice      float64

	PaymentStatus string
	Notes         *string
	ReminderSent  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись занимает слот
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeModified возвращает true, если запись можно отменить или перенести
// (без учета временной отсечки — её проверяет usecase)
func (a *Appointment) CanBeModified() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// StartsAt возвращает момент начала записи
func (a *Appointment) StartsAt() (time.Time, error) {
	return a.StartTime.On(a.Date)
}

// Interval возвращает занятый записью интервал
func (a *Appointment) Interval() BusyInterval {
	return BusyInterval{Start: a.StartTime, DurationMinutes: a.DurationMinutes}
}
