package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/pkg/ptr"
	"github.com/avdmitr/salon-booking-service/pkg/txmanager"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	created      *domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	created := *apt
	created.ID = 100
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeAppointmentRepo) GetByDate(_ context.Context, _ time.Time, _ bool) ([]*domain.Appointment, error) {
	return f.appointments, nil
}

type fakeClientRepo struct {
	clientID int64
}

func (f *fakeClientRepo) UpsertByPhone(_ context.Context, c *domain.Client) (*domain.Client, error) {
	upserted := *c
	upserted.ID = f.clientID
	return &upserted, nil
}

type fakeCatalogRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeScheduleRepo struct {
	salon   *domain.ScheduleEntry
	master  *domain.ScheduleEntry
	blocked []*domain.BlockedSlot
}

func (f *fakeScheduleRepo) GetSalonDay(_ context.Context, dayOfWeek int) (*domain.ScheduleEntry, error) {
	if f.salon == nil {
		return nil, scheduleRepo.ErrEntryNotFound
	}
	return f.salon, nil
}

func (f *fakeScheduleRepo) GetMasterDay(_ context.Context, dayOfWeek int) (*domain.ScheduleEntry, error) {
	if f.master == nil {
		return nil, scheduleRepo.ErrEntryNotFound
	}
	return f.master, nil
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

// Сборка use case с дефолтными фейками

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	notifier     *fakeNotifier
}

func newFixture(now time.Time) *fixture {
	appointments := &fakeAppointmentRepo{}
	notifier := &fakeNotifier{}

	uc := NewUseCase(
		appointments,
		&fakeClientRepo{clientID: 1},
		&fakeCatalogRepo{service: &domain.Service{
			ID: 5, Name: "Стрижка", DurationMinutes: 60, Price: 2000, IsActive: true,
		}},
		&fakeScheduleRepo{},
		&fakeTxManager{},
		notifier,
		domain.DefaultBookingSettings(),
		noopLogger{},
	)
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &fixture{uc: uc, appointments: appointments, notifier: notifier}
}

// 2026-09-14 понедельник, дефолтное окно 10:00-20:00
var (
	testNow  = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
)

func validRequest() *Request {
	return &Request{
		ClientName: "Анна Иванова",
		Phone:      "89161234567",
		ServiceID:  5,
		Date:       testDate,
		StartTime:  "12:00",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(testNow)

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 2000.0, resp.TotalPrice)
	assert.Equal(t, "+79161234567", resp.Phone)
	assert.Equal(t, "Стрижка", resp.ServiceName)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, domain.EventCreated, f.notifier.events[0].Type)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixture(testNow)
	f.appointments.appointments = []*domain.Appointment{
		{ID: 7, ClientID: 99, StartTime: "12:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.notifier.events)
}

func TestExecute_AdjacentSlotAllowed(t *testing.T) {
	f := newFixture(testNow)
	f.appointments.appointments = []*domain.Appointment{
		{ID: 7, ClientID: 99, StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err, "запись встык к существующей допустима")
}

func TestExecute_DuplicateBooking(t *testing.T) {
	f := newFixture(testNow)
	// ClientID 1 совпадает с результатом upsert
	f.appointments.appointments = []*domain.Appointment{
		{ID: 7, ClientID: 1, StartTime: "12:00", DurationMinutes: 60, Status: domain.StatusPending},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_BlockedSlot(t *testing.T) {
	f := newFixture(testNow)
	scheduleFake := f.uc.scheduleRepo.(*fakeScheduleRepo)
	scheduleFake.blocked = []*domain.BlockedSlot{
		{Date: testDate, StartTime: "12:00", DurationMinutes: 30, Reason: ptr.Ptr("перерыв")},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_DayClosed(t *testing.T) {
	f := newFixture(testNow)
	scheduleFake := f.uc.scheduleRepo.(*fakeScheduleRepo)
	scheduleFake.salon = &domain.ScheduleEntry{
		DayOfWeek: 1, StartTime: "10:00", EndTime: "20:00", IsWorking: false,
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrDayClosed)
}

func TestExecute_MasterWindowNarrowsDay(t *testing.T) {
	f := newFixture(testNow)
	scheduleFake := f.uc.scheduleRepo.(*fakeScheduleRepo)
	scheduleFake.master = &domain.ScheduleEntry{
		DayOfWeek: 1, StartTime: "14:00", EndTime: "18:00", IsWorking: true,
	}

	req := validRequest()
	req.StartTime = "12:00"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot, "слот до начала окна мастера недоступен")

	req.StartTime = "14:00"
	_, err = f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_MisalignedSlot(t *testing.T) {
	f := newFixture(testNow)

	req := validRequest()
	req.StartTime = "12:10"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_ServiceDoesNotFitBeforeClosing(t *testing.T) {
	f := newFixture(testNow)

	req := validRequest()
	req.StartTime = "19:30"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(testNow)

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_BeyondHorizon(t *testing.T) {
	f := newFixture(testNow)

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, 31)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	f := newFixture(time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC))

	req := validRequest()
	req.StartTime = "12:00"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_AdminBypassesMinNotice(t *testing.T) {
	f := newFixture(time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC))
	f.uc.settings.MinBookingNoticeMinutes = 120

	req := validRequest()
	req.StartTime = "12:00"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook, "клиенту нужно бронировать за 2 часа")

	req.ByAdmin = true
	_, err = f.uc.Execute(context.Background(), req)
	assert.NoError(t, err, "администратор создает запись без минимального уведомления")
}

func TestExecute_AdminCannotBookPastSlot(t *testing.T) {
	f := newFixture(time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC))

	req := validRequest()
	req.StartTime = "12:00"
	req.ByAdmin = true

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_InactiveService(t *testing.T) {
	f := newFixture(testNow)
	catalogFake := f.uc.catalogRepo.(*fakeCatalogRepo)
	catalogFake.service.IsActive = false

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(testNow)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"короткое имя", func(r *Request) { r.ClientName = "А" }},
		{"некорректный телефон", func(r *Request) { r.Phone = "12345" }},
		{"нулевая услуга", func(r *Request) { r.ServiceID = 0 }},
		{"нет даты", func(r *Request) { r.Date = time.Time{} }},
		{"нет времени", func(r *Request) { r.StartTime = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	f := newFixture(testNow)
	// GetByDate с activeOnly=true не вернула бы отмененную запись,
	// фейк просто отдает пустой список
	f.appointments.appointments = nil

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err)
}

// Менеджер, у которого конфликт сериализации сохраняется после всех повторов
type conflictTxManager struct {
	err error
}

func (f *conflictTxManager) DoSerializable(_ context.Context, _ func(ctx context.Context) error) error {
	return f.err
}

func TestExecute_SerializationConflictMapsToSlotConflict(t *testing.T) {
	f := newFixture(testNow)
	pqConflict := &pq.Error{Code: "40001", Message: "could not serialize access"}
	f.uc.txManager = &conflictTxManager{
		err: fmt.Errorf("%w: commit: %w", txmanager.ErrTxFailed, pqConflict),
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_TxFailureWithoutConflictStaysInternal(t *testing.T) {
	f := newFixture(testNow)
	f.uc.txManager = &conflictTxManager{
		err: fmt.Errorf("%w: begin: %w", txmanager.ErrTxFailed, errors.New("connection refused")),
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, txmanager.ErrTxFailed)
}
