package modify_booking

import (
	"fmt"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// validateOwnership проверяет, что телефон принадлежит владельцу записи
// Несовпадение маскируется под "не найдено", чтобы не раскрывать чужие записи
func validateOwnership(client *domain.Client, phone string) error {
	if client.Phone != phone {
		return ErrAppointmentNotFound
	}
	return nil
}

// validateModifiable проверяет, что запись можно изменить с учетом отсечки
func validateModifiable(apt *domain.Appointment, now time.Time, cutoffMinutes int) error {
	if !apt.CanBeModified() {
		return fmt.Errorf("%w: status is %s", ErrNotModifiable, apt.Status)
	}

	startsAt, err := apt.StartsAt()
	if err != nil {
		return fmt.Errorf("%w: failed to resolve appointment start: %v", ErrInternal, err)
	}

	if startsAt.Sub(now) < time.Duration(cutoffMinutes)*time.Minute {
		return fmt.Errorf("%w: less than %d minutes before start", ErrTooLateToModify, cutoffMinutes)
	}

	return nil
}

// validateNewDate проверяет дату переноса: не в прошлом и в пределах горизонта
func validateNewDate(date time.Time, now time.Time, bookingDaysAhead int) error {
	dateOnly := truncateToDay(date)
	nowOnly := truncateToDay(now)

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	if bookingDaysAhead > 0 && dateOnly.After(nowOnly.AddDate(0, 0, bookingDaysAhead)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, bookingDaysAhead)
	}

	return nil
}

// validateSlotFitsWindow проверяет, что слот лежит на сетке рабочего окна
// и услуга целиком помещается до закрытия
func validateSlotFitsWindow(
	start types.TimeString,
	durationMinutes int,
	window domain.DayWindow,
	slotStepMinutes int,
) error {
	if start.IsBefore(window.Start) {
		return fmt.Errorf("%w: before opening time %s", ErrInvalidTimeSlot, window.Start)
	}

	startMin, err := start.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	windowStartMin, err := window.Start.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if (startMin-windowStartMin)%slotStepMinutes != 0 {
		return fmt.Errorf("%w: time %s is not aligned to %d-minute grid", ErrInvalidTimeSlot, start, slotStepMinutes)
	}

	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	if end.IsAfter(window.End) {
		return fmt.Errorf("%w: service does not fit before closing time %s", ErrInvalidTimeSlot, window.End)
	}

	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
