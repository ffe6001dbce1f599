package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	catalogRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/catalog"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// UseCase use case для вычисления доступных слотов
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	settings        domain.BookingSettings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	settings domain.BookingSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute возвращает доступные слоты на дату для указанной услуги
// Даты в прошлом и за горизонтом бронирования дают пустой список, а не ошибку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	service, err := uc.getService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()

	window, err := uc.resolveWindow(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	slots, err := uc.slotsForDate(ctx, service, req.Date, now)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: %d slots available on %s",
		len(slots), req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		ServiceID:       service.ID,
		DurationMinutes: service.DurationMinutes,
		Window:          window,
		Slots:           slots,
	}, nil
}

// AvailableDates возвращает даты в пределах горизонта бронирования,
// на которые есть хотя бы один доступный слот
func (uc *UseCase) AvailableDates(ctx context.Context, req *DatesRequest) (*DatesResponse, error) {
	uc.logger.Info("GetAvailableDates: service=%d", req.ServiceID)

	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	service, err := uc.getService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	today := truncateToDay(now)

	dates := make([]time.Time, 0)
	for offset := 0; offset <= uc.settings.BookingDaysAhead; offset++ {
		date := today.AddDate(0, 0, offset)

		slots, err := uc.slotsForDate(ctx, service, date, now)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			dates = append(dates, date)
		}
	}

	uc.logger.Info("GetAvailableDates: %d dates available for service=%d", len(dates), req.ServiceID)

	return &DatesResponse{ServiceID: service.ID, Dates: dates}, nil
}

// slotsForDate вычисляет свободные слоты на одну дату
func (uc *UseCase) slotsForDate(ctx context.Context, service *domain.Service, date time.Time, now time.Time) ([]types.TimeString, error) {
	dateOnly := truncateToDay(date)
	today := truncateToDay(now)

	// Прошлые даты и даты за горизонтом недоступны
	if dateOnly.Before(today) {
		return []types.TimeString{}, nil
	}
	if uc.settings.BookingDaysAhead > 0 && dateOnly.After(today.AddDate(0, 0, uc.settings.BookingDaysAhead)) {
		return []types.TimeString{}, nil
	}

	window, err := uc.resolveWindow(ctx, date)
	if err != nil {
		return nil, err
	}

	slots, err := generateTimeSlots(window, uc.settings.SlotDurationMinutes, service.DurationMinutes,
		date, now, uc.settings.MinBookingNoticeMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate slots: %w", ErrInternal, err)
	}
	if len(slots) == 0 {
		return slots, nil
	}

	appointments, err := uc.appointmentRepo.GetByDate(ctx, date, true)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	blocked, err := uc.scheduleRepo.GetBlockedByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked slots: %w", ErrInternal, err)
	}

	busy := collectBusyIntervals(appointments, blocked)

	return filterFreeSlots(slots, service.DurationMinutes, busy), nil
}

func (uc *UseCase) getService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	service, err := uc.catalogRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// resolveWindow вычисляет эффективное рабочее окно на дату
// Отсутствующая строка шаблона заменяется дефолтной
func (uc *UseCase) resolveWindow(ctx context.Context, date time.Time) (domain.DayWindow, error) {
	dayOfWeek := domain.WeekdayIndex(date)

	salon, err := uc.scheduleRepo.GetSalonDay(ctx, dayOfWeek)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrEntryNotFound) {
			return domain.DayWindow{}, fmt.Errorf("%w: failed to get salon schedule: %w", ErrInternal, err)
		}
		def := domain.DefaultScheduleEntry(dayOfWeek)
		salon = &def
	}

	master, err := uc.scheduleRepo.GetMasterDay(ctx, dayOfWeek)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrEntryNotFound) {
			return domain.DayWindow{}, fmt.Errorf("%w: failed to get master availability: %w", ErrInternal, err)
		}
		def := domain.DefaultScheduleEntry(dayOfWeek)
		master = &def
	}

	return domain.EffectiveWindow(*salon, *master), nil
}
