package block_slot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/pkg/ptr"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

type fakeScheduleRepo struct {
	salon       *domain.ScheduleEntry
	master      *domain.ScheduleEntry
	existing    map[string]*domain.BlockedSlot // ключ "date|time"
	deleted     []string
	nextID      int64
	createdArgs []*domain.BlockedSlot
}

func blockKey(date time.Time, slotTime string) string {
	return date.Format(domain.DateFormat) + "|" + slotTime
}

func seededBlock(date time.Time, start types.TimeString, durationMinutes int) *domain.BlockedSlot {
	return &domain.BlockedSlot{Date: date, StartTime: start, DurationMinutes: durationMinutes}
}

func (f *fakeScheduleRepo) GetSalonDay(_ context.Context, _ int) (*domain.ScheduleEntry, error) {
	if f.salon == nil {
		return nil, scheduleRepo.ErrEntryNotFound
	}
	return f.salon, nil
}

func (f *fakeScheduleRepo) GetMasterDay(_ context.Context, _ int) (*domain.ScheduleEntry, error) {
	if f.master == nil {
		return nil, scheduleRepo.ErrEntryNotFound
	}
	return f.master, nil
}

func (f *fakeScheduleRepo) GetBlockedByDate(_ context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	prefix := date.Format(domain.DateFormat) + "|"
	blocked := make([]*domain.BlockedSlot, 0)
	for key, slot := range f.existing {
		if strings.HasPrefix(key, prefix) {
			blocked = append(blocked, slot)
		}
	}
	return blocked, nil
}

func (f *fakeScheduleRepo) CreateBlocked(_ context.Context, slot *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	key := blockKey(slot.Date, slot.StartTime.String())
	if f.existing[key] != nil {
		return nil, scheduleRepo.ErrSlotAlreadyBlocked
	}
	if f.existing == nil {
		f.existing = make(map[string]*domain.BlockedSlot)
	}
	f.createdArgs = append(f.createdArgs, slot)

	f.nextID++
	created := *slot
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.existing[key] = &created
	return &created, nil
}

func (f *fakeScheduleRepo) DeleteBlocked(_ context.Context, date time.Time, slotTime string) error {
	key := blockKey(date, slotTime)
	if f.existing[key] == nil {
		return scheduleRepo.ErrBlockedSlotNotFound
	}
	delete(f.existing, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByDate(_ context.Context, _ time.Time, activeOnly bool) ([]*domain.Appointment, error) {
	if !activeOnly {
		return f.appointments, nil
	}
	active := make([]*domain.Appointment, 0)
	for _, apt := range f.appointments {
		if apt.IsActive() {
			active = append(active, apt)
		}
	}
	return active, nil
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var (
	testNow = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	// 2026-09-15 вторник, дефолтное окно 10:00-20:00
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
)

func newTestUseCase(schedule *fakeScheduleRepo) *UseCase {
	uc := NewUseCase(schedule, &fakeAppointmentRepo{}, domain.DefaultBookingSettings(), noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func TestBlock_Success(t *testing.T) {
	schedule := &fakeScheduleRepo{}
	uc := newTestUseCase(schedule)

	resp, err := uc.Block(context.Background(), &BlockRequest{
		Date:      testDate,
		StartTime: "12:00",
		Reason:    ptr.Ptr("перерыв"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 30, resp.DurationMinutes, "нулевая длительность подменяется шагом сетки")
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "перерыв", *resp.Reason)
}

func TestBlock_ExplicitDuration(t *testing.T) {
	schedule := &fakeScheduleRepo{}
	uc := newTestUseCase(schedule)

	resp, err := uc.Block(context.Background(), &BlockRequest{
		Date:            testDate,
		StartTime:       "12:00",
		DurationMinutes: 90,
	})

	require.NoError(t, err)
	assert.Equal(t, 90, resp.DurationMinutes)
}

func TestBlock_AlreadyBlocked(t *testing.T) {
	schedule := &fakeScheduleRepo{existing: map[string]*domain.BlockedSlot{
		blockKey(testDate, "12:00"): seededBlock(testDate, "12:00", 30),
	}}
	uc := newTestUseCase(schedule)

	_, err := uc.Block(context.Background(), &BlockRequest{Date: testDate, StartTime: "12:00"})

	assert.ErrorIs(t, err, ErrSlotAlreadyBlocked)
}

func TestBlock_OverlapsExistingBlock(t *testing.T) {
	// блокировка 12:00-13:00 пересекается с запрошенным интервалом 12:30,
	// хотя точного совпадения по времени начала нет
	schedule := &fakeScheduleRepo{existing: map[string]*domain.BlockedSlot{
		blockKey(testDate, "12:00"): seededBlock(testDate, "12:00", 60),
	}}
	uc := newTestUseCase(schedule)

	_, err := uc.Block(context.Background(), &BlockRequest{Date: testDate, StartTime: "12:30"})

	assert.ErrorIs(t, err, ErrSlotAlreadyBlocked)
}

func TestBlock_OverlapsAppointment(t *testing.T) {
	schedule := &fakeScheduleRepo{}
	uc := newTestUseCase(schedule)
	uc.appointmentRepo = &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{ID: 1, Date: testDate, StartTime: "14:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}}

	_, err := uc.Block(context.Background(), &BlockRequest{Date: testDate, StartTime: "14:30"})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// смежный интервал сразу после записи свободен
	resp, err := uc.Block(context.Background(), &BlockRequest{Date: testDate, StartTime: "15:00"})
	require.NoError(t, err)
	assert.Equal(t, "15:00", resp.StartTime.String())
}

func TestBlock_CancelledAppointmentDoesNotConflict(t *testing.T) {
	schedule := &fakeScheduleRepo{}
	uc := newTestUseCase(schedule)
	uc.appointmentRepo = &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{ID: 1, Date: testDate, StartTime: "14:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}}

	_, err := uc.Block(context.Background(), &BlockRequest{Date: testDate, StartTime: "14:00"})

	require.NoError(t, err)
}

func TestBlock_PastDate(t *testing.T) {
	uc := newTestUseCase(&fakeScheduleRepo{})

	_, err := uc.Block(context.Background(), &BlockRequest{
		Date:      testNow.AddDate(0, 0, -1),
		StartTime: "12:00",
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBlock_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeScheduleRepo{})

	_, err := uc.Block(context.Background(), &BlockRequest{StartTime: "12:00"})
	assert.ErrorIs(t, err, ErrInvalidInput, "нет даты")

	_, err = uc.Block(context.Background(), &BlockRequest{Date: testDate, StartTime: "25:99"})
	assert.ErrorIs(t, err, ErrInvalidInput, "некорректное время")

	_, err = uc.Block(context.Background(), &BlockRequest{
		Date: testDate, StartTime: "12:00", DurationMinutes: -30,
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "отрицательная длительность")

	_, err = uc.Block(context.Background(), &BlockRequest{
		Date: testDate, StartTime: "12:00",
		Reason: ptr.Ptr(strings.Repeat("х", domain.MaxBlockReasonLength+1)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "слишком длинная причина")
}

func TestUnblock_Success(t *testing.T) {
	schedule := &fakeScheduleRepo{existing: map[string]*domain.BlockedSlot{
		blockKey(testDate, "12:00"): seededBlock(testDate, "12:00", 30),
	}}
	uc := newTestUseCase(schedule)

	err := uc.Unblock(context.Background(), &UnblockRequest{Date: testDate, StartTime: "12:00"})

	require.NoError(t, err)
	assert.Len(t, schedule.deleted, 1)
}

func TestUnblock_NotFound(t *testing.T) {
	uc := newTestUseCase(&fakeScheduleRepo{})

	err := uc.Unblock(context.Background(), &UnblockRequest{Date: testDate, StartTime: "12:00"})

	assert.ErrorIs(t, err, ErrBlockedSlotNotFound)
}

func TestBlockDay_BlocksWholeWindow(t *testing.T) {
	schedule := &fakeScheduleRepo{
		salon: &domain.ScheduleEntry{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", IsWorking: true},
	}
	uc := newTestUseCase(schedule)

	resp, err := uc.BlockDay(context.Background(), &BlockDayRequest{Date: testDate, Reason: ptr.Ptr("отпуск")})

	require.NoError(t, err)
	require.Len(t, resp.Blocked, 4)
	assert.Empty(t, resp.Skipped)
	assert.Equal(t, "10:00", resp.Blocked[0].StartTime.String())
	assert.Equal(t, "11:30", resp.Blocked[3].StartTime.String())
}

func TestBlockDay_SkipsAlreadyBlocked(t *testing.T) {
	schedule := &fakeScheduleRepo{
		salon: &domain.ScheduleEntry{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", IsWorking: true},
		existing: map[string]*domain.BlockedSlot{
			blockKey(testDate, "10:30"): seededBlock(testDate, "10:30", 30),
			blockKey(testDate, "11:00"): seededBlock(testDate, "11:00", 30),
		},
	}
	uc := newTestUseCase(schedule)

	resp, err := uc.BlockDay(context.Background(), &BlockDayRequest{Date: testDate})

	require.NoError(t, err)
	assert.Len(t, resp.Blocked, 2)
	assert.Equal(t, []types.TimeString{"10:30", "11:00"}, resp.Skipped)
}

func TestBlockDay_SkipsAppointmentSlots(t *testing.T) {
	// запись 10:30-11:30 закрывает два слота получасовой сетки
	schedule := &fakeScheduleRepo{
		salon: &domain.ScheduleEntry{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", IsWorking: true},
	}
	uc := newTestUseCase(schedule)
	uc.appointmentRepo = &fakeAppointmentRepo{appointments: []*domain.Appointment{
		{ID: 1, Date: testDate, StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusPending},
	}}

	resp, err := uc.BlockDay(context.Background(), &BlockDayRequest{Date: testDate})

	require.NoError(t, err)
	require.Len(t, resp.Blocked, 2)
	assert.Equal(t, "10:00", resp.Blocked[0].StartTime.String())
	assert.Equal(t, "11:30", resp.Blocked[1].StartTime.String())
	assert.Equal(t, []types.TimeString{"10:30", "11:00"}, resp.Skipped)
}

func TestBlockDay_Idempotent(t *testing.T) {
	schedule := &fakeScheduleRepo{
		salon: &domain.ScheduleEntry{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", IsWorking: true},
	}
	uc := newTestUseCase(schedule)

	first, err := uc.BlockDay(context.Background(), &BlockDayRequest{Date: testDate})
	require.NoError(t, err)
	assert.Len(t, first.Blocked, 4)

	second, err := uc.BlockDay(context.Background(), &BlockDayRequest{Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, second.Blocked)
	assert.Len(t, second.Skipped, 4)
}

func TestBlockDay_ClosedDay(t *testing.T) {
	schedule := &fakeScheduleRepo{
		salon: &domain.ScheduleEntry{DayOfWeek: 1, StartTime: "10:00", EndTime: "20:00", IsWorking: false},
	}
	uc := newTestUseCase(schedule)

	_, err := uc.BlockDay(context.Background(), &BlockDayRequest{Date: testDate})

	assert.ErrorIs(t, err, ErrDayClosed)
}

func TestBlockDay_PastDate(t *testing.T) {
	uc := newTestUseCase(&fakeScheduleRepo{})

	_, err := uc.BlockDay(context.Background(), &BlockDayRequest{Date: testNow.AddDate(0, 0, -3)})

	assert.ErrorIs(t, err, ErrInvalidDate)
}
