package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// validateRequest валидирует входные данные и возвращает телефон в каноничном виде
func validateRequest(req *Request) (string, error) {
	name := strings.TrimSpace(req.ClientName)
	if len([]rune(name)) < domain.MinClientNameLength {
		return "", fmt.Errorf("%w: client name must be at least %d characters",
			ErrInvalidInput, domain.MinClientNameLength)
	}
	if len([]rune(name)) > domain.MaxClientNameLength {
		return "", fmt.Errorf("%w: client name must be at most %d characters",
			ErrInvalidInput, domain.MaxClientNameLength)
	}

	phone, err := domain.NormalizePhone(req.Phone)
	if err != nil {
		return "", fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return "", fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return "", fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return "", fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return "", fmt.Errorf("%w: notes must be at most %d characters",
			ErrInvalidInput, domain.MaxNotesLength)
	}

	return phone, nil
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта бронирования
func validateDate(date time.Time, now time.Time, bookingDaysAhead int) error {
	dateOnly := truncateToDay(date)
	nowOnly := truncateToDay(now)

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	if bookingDaysAhead > 0 {
		maxDate := nowOnly.AddDate(0, 0, bookingDaysAhead)
		if dateOnly.After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, bookingDaysAhead)
		}
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

// validateBookingTime проверяет минимальное уведомление для записей на сегодня
// Слоты, начало которых уже прошло, недоступны всегда
func validateBookingTime(
	date time.Time,
	startTime types.TimeString,
	now time.Time,
	minNoticeMinutes int,
) error {
	if !isSameDay(date, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minNoticeMinutes)
	if err != nil {
		return fmt.Errorf("%w: failed to calculate min allowed time: %v", ErrInternal, err)
	}

	if !startTime.IsAfter(minAllowedTime) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minNoticeMinutes)
	}

	return nil
}

func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
