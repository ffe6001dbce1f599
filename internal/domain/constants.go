package domain

// Значения по умолчанию для настроек бронирования
const (
	DefaultSlotDurationMinutes     = 30
	DefaultBookingDaysAhead        = 30
	DefaultMinBookingNoticeMinutes = 0
	DefaultMinModifyNoticeMinutes  = 120 // 2 часа до начала записи
)

// Ограничения бизнес-валидации
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxNotesLength            = 500
	MaxBlockReasonLength      = 100
	MinClientNameLength       = 2
	MaxClientNameLength       = 100
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingSettings настройки планирования
// Передаются явно в usecases при конструировании, чтобы тесты могли
// подставлять свои горизонты и отсечки
type BookingSettings struct {
	SlotDurationMinutes     int
	BookingDaysAhead        int
	MinBookingNoticeMinutes int
	MinModifyNoticeMinutes  int
}

// DefaultBookingSettings возвращает настройки по умолчанию
func DefaultBookingSettings() BookingSettings {
	return BookingSettings{
		SlotDurationMinutes:     DefaultSlotDurationMinutes,
		BookingDaysAhead:        DefaultBookingDaysAhead,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		MinModifyNoticeMinutes:  DefaultMinModifyNoticeMinutes,
	}
}
