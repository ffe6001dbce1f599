package get_available_slots

import (
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги (определяет длительность слота)
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // Дата, на которую запрашивались слоты
	ServiceID       int64              // ID услуги
	DurationMinutes int                // Длительность услуги в минутах
	Window          domain.DayWindow   // Эффективное рабочее окно на дату
	Slots           []types.TimeString // Времена начала доступных слотов
}

// DatesRequest модель запроса на получение дат с доступными слотами
type DatesRequest struct {
	ServiceID int64 // ID услуги
}

// DatesResponse модель ответа со списком дат
type DatesResponse struct {
	ServiceID int64       // ID услуги
	Dates     []time.Time // Даты в пределах горизонта, где есть хотя бы один слот
}
