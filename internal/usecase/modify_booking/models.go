package modify_booking

import (
	"time"

	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// CancelRequest модель запроса на отмену записи
type CancelRequest struct {
	AppointmentID int64  // ID записи
	Phone         string // Телефон клиента для подтверждения владения
}

// RescheduleRequest модель запроса на перенос записи
type RescheduleRequest struct {
	AppointmentID int64            // ID записи
	Phone         string           // Телефон клиента для подтверждения владения
	NewDate       time.Time        // Новая дата
	NewTime       types.TimeString // Новое время начала
}

// Response модель ответа с измененной записью
type Response struct {
	ID              int64            // ID записи
	ServiceID       int64            // ID услуги
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	TotalPrice      float64          // Цена
	Status          string           // Статус записи
	Notes           *string          // Пожелания
	UpdatedAt       time.Time        // Время обновления
}
