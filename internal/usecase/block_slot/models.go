package block_slot

import (
	"time"

	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// BlockRequest модель запроса на блокировку одного слота
type BlockRequest struct {
	Date            time.Time        // Дата слота
	StartTime       types.TimeString // Время начала слота
	DurationMinutes int              // Длительность, 0 подставляет шаг сетки
	Reason          *string          // Причина блокировки (опционально)
}

// UnblockRequest модель запроса на снятие блокировки
type UnblockRequest struct {
	Date      time.Time        // Дата слота
	StartTime types.TimeString // Время начала слота
}

// BlockDayRequest модель запроса на блокировку целого дня
type BlockDayRequest struct {
	Date   time.Time // Дата
	Reason *string   // Причина блокировки (опционально)
}

// BlockedSlotResponse модель заблокированного слота
type BlockedSlotResponse struct {
	ID              int64            // ID блокировки
	Date            time.Time        // Дата слота
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Reason          *string          // Причина
	CreatedAt       time.Time        // Время создания
}

// BlockDayResponse модель результата блокировки дня
// Уже заблокированные слоты пропускаются, а не считаются ошибкой
type BlockDayResponse struct {
	Date    time.Time             // Дата
	Blocked []BlockedSlotResponse // Созданные блокировки
	Skipped []types.TimeString    // Слоты, которые уже были заблокированы
}
