package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

var (
	futureDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	morningNow = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
)

func openWindow(start, end string) domain.DayWindow {
	return domain.DayWindow{
		Start:  types.TimeString(start),
		End:    types.TimeString(end),
		IsOpen: true,
	}
}

func TestGenerateTimeSlots_FullGrid(t *testing.T) {
	slots, err := generateTimeSlots(openWindow("10:00", "12:00"), 30, 30, futureDate, morningNow, 0)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00", "11:30"}, slots)
}

func TestGenerateTimeSlots_LongServiceTrimsTail(t *testing.T) {
	// Услуга 60 минут: слот 11:30 не помещается до закрытия в 12:00
	slots, err := generateTimeSlots(openWindow("10:00", "12:00"), 30, 60, futureDate, morningNow, 0)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00", "10:30", "11:00"}, slots)
}

func TestGenerateTimeSlots_ClosedDay(t *testing.T) {
	slots, err := generateTimeSlots(domain.DayWindow{IsOpen: false}, 30, 30, futureDate, morningNow, 0)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateTimeSlots_ServiceLongerThanWindow(t *testing.T) {
	slots, err := generateTimeSlots(openWindow("10:00", "11:00"), 30, 120, futureDate, morningNow, 0)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateTimeSlots_TodayFiltersPastSlots(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC)

	slots, err := generateTimeSlots(openWindow("10:00", "12:00"), 30, 30, futureDate, now, 0)

	require.NoError(t, err)
	// Слот 10:30 начинается не строго позже 10:30 и отфильтрован
	assert.Equal(t, []types.TimeString{"11:00", "11:30"}, slots)
}

func TestGenerateTimeSlots_TodayAppliesMinNotice(t *testing.T) {
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	slots, err := generateTimeSlots(openWindow("10:00", "12:00"), 30, 30, futureDate, now, 60)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"11:30"}, slots)
}

func TestFilterFreeSlots(t *testing.T) {
	slots := []types.TimeString{"10:00", "10:30", "11:00", "11:30"}
	busy := []domain.BusyInterval{
		{Start: "10:30", DurationMinutes: 30},
	}

	free := filterFreeSlots(slots, 30, busy)

	assert.Equal(t, []types.TimeString{"10:00", "11:00", "11:30"}, free)
}

func TestFilterFreeSlots_LongServiceOverlapsAhead(t *testing.T) {
	slots := []types.TimeString{"10:00", "10:30", "11:00"}
	busy := []domain.BusyInterval{
		{Start: "11:00", DurationMinutes: 30},
	}

	// Услуга 60 минут: слот 10:30 занял бы интервал 10:30-11:30
	free := filterFreeSlots(slots, 60, busy)

	assert.Equal(t, []types.TimeString{"10:00"}, free)
}

func TestCollectBusyIntervals_SkipsInactive(t *testing.T) {
	appointments := []*domain.Appointment{
		{StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusConfirmed},
		{StartTime: "11:00", DurationMinutes: 30, Status: domain.StatusCancelled},
		{StartTime: "12:00", DurationMinutes: 30, Status: domain.StatusPending},
	}
	blocked := []*domain.BlockedSlot{
		{StartTime: "14:00", DurationMinutes: 60},
	}

	busy := collectBusyIntervals(appointments, blocked)

	require.Len(t, busy, 3)
	assert.Equal(t, "10:00", busy[0].Start.String())
	assert.Equal(t, "12:00", busy[1].Start.String())
	assert.Equal(t, "14:00", busy[2].Start.String())
}
