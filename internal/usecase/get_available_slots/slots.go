package get_available_slots

import (
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// generateTimeSlots генерирует сетку слотов внутри рабочего окна
// Слоты идут с шагом slotStepMinutes от начала окна; слот попадает в сетку,
// только если услуга целиком помещается до закрытия.
// Для сегодняшней даты слоты фильтруются по минимальному уведомлению
func generateTimeSlots(
	window domain.DayWindow,
	slotStepMinutes int,
	serviceDurationMinutes int,
	requestDate time.Time,
	now time.Time,
	minNoticeMinutes int,
) ([]types.TimeString, error) {
	if !window.IsOpen {
		return []types.TimeString{}, nil
	}

	allSlots := make([]types.TimeString, 0)
	currentSlot := window.Start

	for currentSlot.IsBefore(window.End) {
		slotEnd, err := currentSlot.AddMinutes(serviceDurationMinutes)
		if err != nil {
			break
		}
		if slotEnd.IsAfter(window.End) {
			break
		}

		allSlots = append(allSlots, currentSlot)

		currentSlot, err = currentSlot.AddMinutes(slotStepMinutes)
		if err != nil {
			break
		}
	}

	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	// Сегодня: слот должен начинаться строго позже now + minNotice
	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minNoticeMinutes)
	if err != nil {
		return nil, err
	}

	availableSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		if slot.IsAfter(minAllowedTime) {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// filterFreeSlots оставляет слоты, не пересекающиеся ни с одним занятым интервалом
func filterFreeSlots(slots []types.TimeString, serviceDurationMinutes int, busy []domain.BusyInterval) []types.TimeString {
	free := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if !domain.OverlapsAny(slot, serviceDurationMinutes, busy) {
			free = append(free, slot)
		}
	}
	return free
}

// collectBusyIntervals собирает занятые интервалы дня:
// активные записи плюс административные блокировки
func collectBusyIntervals(appointments []*domain.Appointment, blocked []*domain.BlockedSlot) []domain.BusyInterval {
	busy := make([]domain.BusyInterval, 0, len(appointments)+len(blocked))
	for _, apt := range appointments {
		if !apt.IsActive() {
			continue
		}
		busy = append(busy, apt.Interval())
	}
	for _, b := range blocked {
		busy = append(busy, b.Interval())
	}
	return busy
}

func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
