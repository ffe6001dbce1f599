package modify_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	appointmentRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/appointment"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/pkg/txmanager"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

type fakeAppointmentRepo struct {
	byID          map[int64]*domain.Appointment
	byDate        []*domain.Appointment
	updatedStatus domain.AppointmentStatus
	rescheduled   bool
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetByDate(_ context.Context, _ time.Time, _ bool) ([]*domain.Appointment, error) {
	return f.byDate, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := f.byID[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.updatedStatus = status
	return nil
}

func (f *fakeAppointmentRepo) UpdateSchedule(_ context.Context, id int64, _ time.Time, _ types.TimeString) error {
	if _, ok := f.byID[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.rescheduled = true
	return nil
}

type fakeClientRepo struct {
	clients map[int64]*domain.Client
}

func (f *fakeClientRepo) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	return f.clients[id], nil
}

type fakeCatalogRepo struct {
	service *domain.Service
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, nil
}

type fakeScheduleRepo struct {
	blocked []*domain.BlockedSlot
}

func (f *fakeScheduleRepo) GetSalonDay(_ context.Context, _ int) (*domain.ScheduleEntry, error) {
	return nil, scheduleRepo.ErrEntryNotFound
}

func (f *fakeScheduleRepo) GetMasterDay(_ context.Context, _ int) (*domain.ScheduleEntry, error) {
	return nil, scheduleRepo.ErrEntryNotFound
}

func (f *fakeScheduleRepo) GetBlockedByDate(_ context.Context, _ time.Time) ([]*domain.BlockedSlot, error) {
	return f.blocked, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	events []domain.Event
}

func (f *fakeNotifier) Notify(event domain.Event) {
	f.events = append(f.events, event)
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

const ownerPhone = "+79161234567"

var (
	// 2026-09-15 вторник, запись на 14:00
	aptDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	schedule     *fakeScheduleRepo
	notifier     *fakeNotifier
}

func newFixture(now time.Time) *fixture {
	appointments := &fakeAppointmentRepo{
		byID: map[int64]*domain.Appointment{
			10: {
				ID: 10, ClientID: 1, ServiceID: 5,
				Date: aptDate, StartTime: "14:00",
				Status:          domain.StatusConfirmed,
				DurationMinutes: 60, TotalPrice: 2000,
			},
		},
	}
	schedule := &fakeScheduleRepo{}
	notifier := &fakeNotifier{}

	uc := NewUseCase(
		appointments,
		&fakeClientRepo{clients: map[int64]*domain.Client{
			1: {ID: 1, Name: "Анна", Phone: ownerPhone},
		}},
		&fakeCatalogRepo{service: &domain.Service{ID: 5, Name: "Стрижка", DurationMinutes: 60, IsActive: true}},
		schedule,
		&fakeTxManager{},
		notifier,
		domain.DefaultBookingSettings(),
		noopLogger{},
	)
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &fixture{uc: uc, appointments: appointments, schedule: schedule, notifier: notifier}
}

func TestCancel_Success(t *testing.T) {
	f := newFixture(testNow)

	resp, err := f.uc.Cancel(context.Background(), &CancelRequest{AppointmentID: 10, Phone: ownerPhone})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, domain.StatusCancelled, f.appointments.updatedStatus)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventCancelled, f.notifier.events[0].Type)
}

func TestCancel_PhoneMismatchMaskedAsNotFound(t *testing.T) {
	f := newFixture(testNow)

	_, err := f.uc.Cancel(context.Background(), &CancelRequest{AppointmentID: 10, Phone: "+79990000000"})

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Empty(t, f.notifier.events)
}

func TestCancel_UnknownAppointment(t *testing.T) {
	f := newFixture(testNow)

	_, err := f.uc.Cancel(context.Background(), &CancelRequest{AppointmentID: 999, Phone: ownerPhone})

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_TooLateBeforeStart(t *testing.T) {
	// За 90 минут до начала при отсечке в 120 минут
	f := newFixture(time.Date(2026, 9, 15, 12, 30, 0, 0, time.UTC))

	_, err := f.uc.Cancel(context.Background(), &CancelRequest{AppointmentID: 10, Phone: ownerPhone})

	assert.ErrorIs(t, err, ErrTooLateToModify)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture(testNow)
	f.appointments.byID[10].Status = domain.StatusCancelled

	_, err := f.uc.Cancel(context.Background(), &CancelRequest{AppointmentID: 10, Phone: ownerPhone})

	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestCancel_CompletedNotModifiable(t *testing.T) {
	f := newFixture(testNow)
	f.appointments.byID[10].Status = domain.StatusCompleted

	_, err := f.uc.Cancel(context.Background(), &CancelRequest{AppointmentID: 10, Phone: ownerPhone})

	assert.ErrorIs(t, err, ErrNotModifiable)
}

func validReschedule() *RescheduleRequest {
	return &RescheduleRequest{
		AppointmentID: 10,
		Phone:         ownerPhone,
		NewDate:       aptDate.AddDate(0, 0, 1),
		NewTime:       "16:00",
	}
}

func TestReschedule_Success(t *testing.T) {
	f := newFixture(testNow)

	resp, err := f.uc.Reschedule(context.Background(), validReschedule())

	require.NoError(t, err)
	assert.True(t, f.appointments.rescheduled)
	assert.Equal(t, "16:00", resp.StartTime.String())
	assert.Equal(t, aptDate.AddDate(0, 0, 1), resp.Date)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventRescheduled, f.notifier.events[0].Type)
}

func TestReschedule_OwnAppointmentNotAConflict(t *testing.T) {
	f := newFixture(testNow)
	// Перенос на полчаса позже внутри собственного интервала
	f.appointments.byDate = []*domain.Appointment{f.appointments.byID[10]}

	req := validReschedule()
	req.NewDate = aptDate
	req.NewTime = "14:30"

	_, err := f.uc.Reschedule(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, f.appointments.rescheduled)
}

func TestReschedule_ConflictWithOtherAppointment(t *testing.T) {
	f := newFixture(testNow)
	f.appointments.byDate = []*domain.Appointment{
		{ID: 20, ClientID: 2, StartTime: "16:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	_, err := f.uc.Reschedule(context.Background(), validReschedule())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.False(t, f.appointments.rescheduled)
}

func TestReschedule_BlockedSlot(t *testing.T) {
	f := newFixture(testNow)
	f.schedule.blocked = []*domain.BlockedSlot{
		{StartTime: "16:00", DurationMinutes: 30},
	}

	_, err := f.uc.Reschedule(context.Background(), validReschedule())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestReschedule_MisalignedSlot(t *testing.T) {
	f := newFixture(testNow)

	req := validReschedule()
	req.NewTime = "16:15"

	_, err := f.uc.Reschedule(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestReschedule_PastNewDate(t *testing.T) {
	f := newFixture(testNow)

	req := validReschedule()
	req.NewDate = aptDate.AddDate(0, 0, -5)

	_, err := f.uc.Reschedule(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestReschedule_BeyondHorizon(t *testing.T) {
	f := newFixture(testNow)

	req := validReschedule()
	req.NewDate = aptDate.AddDate(0, 0, 45)

	_, err := f.uc.Reschedule(context.Background(), req)

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestReschedule_CutoffCountsFromOriginalStart(t *testing.T) {
	// За 60 минут до текущего начала записи перенос уже запрещен,
	// даже если новый слот далеко в будущем
	f := newFixture(time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC))

	_, err := f.uc.Reschedule(context.Background(), validReschedule())

	assert.ErrorIs(t, err, ErrTooLateToModify)
}

func TestReschedule_PhoneMismatchMaskedAsNotFound(t *testing.T) {
	f := newFixture(testNow)

	req := validReschedule()
	req.Phone = "+79990000000"

	_, err := f.uc.Reschedule(context.Background(), req)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// Менеджер, у которого конфликт сериализации сохраняется после всех повторов
type conflictTxManager struct {
	err error
}

func (f *conflictTxManager) DoSerializable(_ context.Context, _ func(ctx context.Context) error) error {
	return f.err
}

func TestReschedule_SerializationConflictMapsToSlotConflict(t *testing.T) {
	f := newFixture(testNow)
	pqConflict := &pq.Error{Code: "40001", Message: "could not serialize access"}
	f.uc.txManager = &conflictTxManager{
		err: fmt.Errorf("%w: commit: %w", txmanager.ErrTxFailed, pqConflict),
	}

	_, err := f.uc.Reschedule(context.Background(), validReschedule())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.notifier.events)
}
