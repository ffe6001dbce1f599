package domain

import "time"

// Service услуга салона
// Длительность и цена снимаются в запись при бронировании: административные
// правки каталога не затрагивают уже созданные записи
type Service struct {
	ID              int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	IsActive        bool
	Category        *string
	CreatedAt       time.Time
}
