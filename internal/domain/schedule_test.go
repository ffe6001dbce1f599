package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdmitr/salon-booking-service/pkg/types"
)

func TestEffectiveWindow_Intersection(t *testing.T) {
	salon := ScheduleEntry{StartTime: "10:00", EndTime: "20:00", IsWorking: true}
	master := ScheduleEntry{StartTime: "12:00", EndTime: "18:00", IsWorking: true}

	window := EffectiveWindow(salon, master)

	require.True(t, window.IsOpen)
	assert.Equal(t, "12:00", window.Start.String())
	assert.Equal(t, "18:00", window.End.String())
}

func TestEffectiveWindow_SalonNarrower(t *testing.T) {
	salon := ScheduleEntry{StartTime: "11:00", EndTime: "15:00", IsWorking: true}
	master := ScheduleEntry{StartTime: "09:00", EndTime: "21:00", IsWorking: true}

	window := EffectiveWindow(salon, master)

	require.True(t, window.IsOpen)
	assert.Equal(t, "11:00", window.Start.String())
	assert.Equal(t, "15:00", window.End.String())
}

func TestEffectiveWindow_SalonClosed(t *testing.T) {
	salon := ScheduleEntry{StartTime: "10:00", EndTime: "20:00", IsWorking: false}
	master := ScheduleEntry{StartTime: "10:00", EndTime: "20:00", IsWorking: true}

	window := EffectiveWindow(salon, master)

	assert.False(t, window.IsOpen)
}

func TestEffectiveWindow_MasterUnavailable(t *testing.T) {
	salon := ScheduleEntry{StartTime: "10:00", EndTime: "20:00", IsWorking: true}
	master := ScheduleEntry{StartTime: "10:00", EndTime: "20:00", IsWorking: false}

	window := EffectiveWindow(salon, master)

	assert.False(t, window.IsOpen)
}

func TestEffectiveWindow_EmptyIntersection(t *testing.T) {
	salon := ScheduleEntry{StartTime: "10:00", EndTime: "14:00", IsWorking: true}
	master := ScheduleEntry{StartTime: "15:00", EndTime: "20:00", IsWorking: true}

	window := EffectiveWindow(salon, master)

	assert.False(t, window.IsOpen)
}

func TestEffectiveWindow_TouchingBoundaries(t *testing.T) {
	// Пересечение [14:00, 14:00) пусто, окно закрыто
	salon := ScheduleEntry{StartTime: "10:00", EndTime: "14:00", IsWorking: true}
	master := ScheduleEntry{StartTime: "14:00", EndTime: "20:00", IsWorking: true}

	window := EffectiveWindow(salon, master)

	assert.False(t, window.IsOpen)
}

func TestDefaultScheduleEntry(t *testing.T) {
	monday := DefaultScheduleEntry(0)
	assert.True(t, monday.IsWorking)
	assert.Equal(t, "10:00", monday.StartTime.String())
	assert.Equal(t, "20:00", monday.EndTime.String())

	saturday := DefaultScheduleEntry(5)
	assert.True(t, saturday.IsWorking)
	assert.Equal(t, "18:00", saturday.EndTime.String())

	sunday := DefaultScheduleEntry(6)
	assert.True(t, sunday.IsWorking)
	assert.Equal(t, "18:00", sunday.EndTime.String())
}

func TestDefaultScheduleEntry_OutOfRange(t *testing.T) {
	entry := DefaultScheduleEntry(7)
	assert.False(t, entry.IsWorking)
}

func TestWeekdayIndex(t *testing.T) {
	// 2026-09-07 понедельник
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayIndex(monday))

	// 2026-09-12 суббота
	saturday := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, WeekdayIndex(saturday))

	// 2026-09-13 воскресенье
	sunday := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, WeekdayIndex(sunday))
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		overlaps bool
	}{
		{"полное совпадение", "10:00", "11:00", "10:00", "11:00", true},
		{"частичное пересечение", "10:00", "11:00", "10:30", "11:30", true},
		{"вложенный интервал", "10:00", "12:00", "10:30", "11:00", true},
		{"граничащие не пересекаются", "10:00", "11:00", "11:00", "12:00", false},
		{"граничащие в обратном порядке", "11:00", "12:00", "10:00", "11:00", false},
		{"разнесенные", "10:00", "11:00", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntervalsOverlap(
				types.TimeString(tt.aStart), types.TimeString(tt.aEnd),
				types.TimeString(tt.bStart), types.TimeString(tt.bEnd),
			)
			assert.Equal(t, tt.overlaps, got)
		})
	}
}

func TestOverlapsAny(t *testing.T) {
	busy := []BusyInterval{
		{Start: "10:00", DurationMinutes: 60},
		{Start: "14:00", DurationMinutes: 30},
	}

	assert.True(t, OverlapsAny("10:30", 60, busy))
	assert.True(t, OverlapsAny("13:45", 30, busy))
	assert.False(t, OverlapsAny("11:00", 60, busy), "слот встык к занятому интервалу свободен")
	assert.False(t, OverlapsAny("12:00", 60, busy))
}

func TestOverlapsAny_EmptyBusyList(t *testing.T) {
	assert.False(t, OverlapsAny("10:00", 60, nil))
}
