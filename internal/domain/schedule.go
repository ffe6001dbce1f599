package domain

import (
	"time"

	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// ScheduleEntry строка недельного шаблона расписания (салона или мастера)
// DayOfWeek: 0 = понедельник ... 6 = воскресенье
type ScheduleEntry struct {
	ID        int64
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
	IsWorking bool
	UpdatedAt time.Time
}

// DayWindow эффективное рабочее окно на дату
type DayWindow struct {
	Start  types.TimeString
	End    types.TimeString
	IsOpen bool
}

// BlockedSlot административно заблокированный интервал (перерыв, личное время)
// Уникален по паре (Date, StartTime)
type BlockedSlot struct {
	ID              int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Reason          *string
	CreatedAt       time.Time
}

// Interval возвращает занятый блокировкой интервал
func (b *BlockedSlot) Interval() BusyInterval {
	return BusyInterval{Start: b.StartTime, DurationMinutes: b.DurationMinutes}
}

// BusyInterval занятый интервал времени в пределах одного дня
type BusyInterval struct {
	Start           types.TimeString
	DurationMinutes int
}

// End возвращает конец интервала
func (i BusyInterval) End() (types.TimeString, error) {
	return i.Start.AddMinutes(i.DurationMinutes)
}

// defaultWeek дефолтный недельный шаблон, применяется когда в БД нет строки
// на данный день недели: Пн-Пт 10:00-20:00, Сб-Вс 10:00-18:00
var defaultWeek = [7]ScheduleEntry{
	{DayOfWeek: 0, StartTime: "10:00", EndTime: "20:00", IsWorking: true},
	{DayOfWeek: 1, StartTime: "10:00", EndTime: "20:00", IsWorking: true},
	{DayOfWeek: 2, StartTime: "10:00", EndTime: "20:00", IsWorking: true},
	{DayOfWeek: 3, StartTime: "10:00", EndTime: "20:00", IsWorking: true},
	{DayOfWeek: 4, StartTime: "10:00", EndTime: "20:00", IsWorking: true},
	{DayOfWeek: 5, StartTime: "10:00", EndTime: "18:00", IsWorking: true},
	{DayOfWeek: 6, StartTime: "10:00", EndTime: "18:00", IsWorking: true},
}

// DefaultScheduleEntry возвращает дефолтную строку шаблона для дня недели
// Один и тот же дефолт используется и для салона, и для мастера
func DefaultScheduleEntry(dayOfWeek int) ScheduleEntry {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ScheduleEntry{DayOfWeek: dayOfWeek, IsWorking: false}
	}
	return defaultWeek[dayOfWeek]
}

// WeekdayIndex конвертирует time.Weekday в индекс шаблона (0 = понедельник)
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// EffectiveWindow вычисляет эффективное рабочее окно как пересечение
// расписания салона и персональной доступности мастера.
// Если хотя бы один из шаблонов помечает день нерабочим, либо пересечение
// пусто (start >= end), окно закрыто.
func EffectiveWindow(salon, master ScheduleEntry) DayWindow {
	if !salon.IsWorking || !master.IsWorking {
		return DayWindow{IsOpen: false}
	}

	start := salon.StartTime
	if master.StartTime.IsAfter(start) {
		start = master.StartTime
	}

	end := salon.EndTime
	if master.EndTime.IsBefore(end) {
		end = master.EndTime
	}

	if !start.IsBefore(end) {
		return DayWindow{IsOpen: false}
	}

	return DayWindow{Start: start, End: end, IsOpen: true}
}

// IntervalsOverlap проверяет пересечение полуоткрытых интервалов [startA, endA) и [startB, endB)
// Граничащие интервалы (конец одного равен началу другого) не считаются пересекающимися
func IntervalsOverlap(startA, endA, startB, endB types.TimeString) bool {
	return startA.IsBefore(endB) && endA.IsAfter(startB)
}

// OverlapsAny проверяет, пересекается ли интервал [start, start+duration)
// хотя бы с одним из занятых интервалов
// Интервалы с некорректным временем пропускаются
func OverlapsAny(start types.TimeString, durationMinutes int, busy []BusyInterval) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	for _, b := range busy {
		busyEnd, err := b.End()
		if err != nil {
			continue
		}
		if IntervalsOverlap(start, end, b.Start, busyEnd) {
			return true
		}
	}
	return false
}
