package create_booking

import (
	"time"

	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientName       string           // Имя клиента
	Phone            string           // Телефон в любом поддерживаемом формате
	Email            *string          // Email (опционально)
	TelegramID       *int64           // Telegram ID (опционально)
	TelegramUsername *string          // Telegram username (опционально)
	ServiceID        int64            // ID услуги
	Date             time.Time        // Дата записи (без времени)
	StartTime        types.TimeString // Время начала слота (например, "10:00")
	Notes            *string          // Пожелания клиента (опционально)

	// ByAdmin помечает запись, созданную администратором:
	// минимальное уведомление для таких записей не проверяется
	ByAdmin bool
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	ClientID        int64            // ID клиента
	ServiceID       int64            // ID услуги
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах (снимок из каталога)
	TotalPrice      float64          // Цена (снимок из каталога)
	Status          string           // Статус записи

	ServiceName string  // Название услуги
	ClientName  string  // Имя клиента
	Phone       string  // Телефон в каноничном виде
	Notes       *string // Пожелания

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
