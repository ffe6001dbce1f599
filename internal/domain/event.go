package domain

// EventType тип события жизненного цикла записи
type EventType string

const (
	EventCreated     EventType = "created"
	EventConfirmed   EventType = "confirmed"
	EventCancelled   EventType = "cancelled"
	EventRescheduled EventType = "rescheduled"
	EventReminder    EventType = "reminder"
)

// Event событие жизненного цикла записи для шлюза уведомлений
// Доставка best-effort: ядро не зависит от успеха отправки
type Event struct {
	Type        EventType
	Appointment *Appointment
	Client      *Client
	Service     *Service
}
