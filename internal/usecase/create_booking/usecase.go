package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	catalogRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/catalog"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/pkg/txmanager"
)

// UseCase use case для создания записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	txManager       TransactionManager
	notifier        Notifier
	settings        domain.BookingSettings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	notifier Notifier,
	settings domain.BookingSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		txManager:       txManager,
		notifier:        notifier,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка доступности слота и вставка идут в одной сериализуемой транзакции,
// что закрывает гонку между конкурирующими бронированиями одного слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%d, date=%s, time=%s, by_admin=%t",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.ByAdmin)

	// 1. Валидация входных данных и нормализация телефона
	phone, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу из каталога
	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 3. Валидация даты: не в прошлом и в пределах горизонта
	if err := validateDate(req.Date, now, uc.settings.BookingDaysAhead); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Минимальное уведомление: администратор создает записи без этой
	// проверки, но слоты с уже прошедшим началом недоступны и ему
	minNotice := uc.settings.MinBookingNoticeMinutes
	if req.ByAdmin {
		minNotice = 0
	}
	if err := validateBookingTime(req.Date, req.StartTime, now, minNotice); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment
	var client *domain.Client

	// 5. Операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Эффективное рабочее окно на дату
		window, err := uc.resolveWindow(txCtx, req.Date)
		if err != nil {
			return err
		}
		if !window.IsOpen {
			uc.logger.Warn("CreateBooking: closed on %s", req.Date.Format(domain.DateFormat))
			return ErrDayClosed
		}

		// 5.2. Слот лежит на сетке и услуга помещается до закрытия
		if err := validateSlotFitsWindow(req.StartTime, service.DurationMinutes, window, uc.settings.SlotDurationMinutes); err != nil {
			uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
			return err
		}

		// 5.3. Создаем или обновляем клиента по телефону
		// Upsert атомарный: конкурирующие записи одного клиента не создадут дубликат
		client, err = uc.clientRepo.UpsertByPhone(txCtx, &domain.Client{
			Name:             strings.TrimSpace(req.ClientName),
			Phone:            phone,
			Email:            req.Email,
			TelegramID:       req.TelegramID,
			TelegramUsername: req.TelegramUsername,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to upsert client: %v", err)
			return fmt.Errorf("%w: failed to upsert client: %w", ErrInternal, err)
		}

		// 5.4. Блокировки слотов на дату
		blocked, err := uc.scheduleRepo.GetBlockedByDate(txCtx, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blocked slots: %v", err)
			return fmt.Errorf("%w: failed to get blocked slots: %w", ErrInternal, err)
		}
		blockedBusy := make([]domain.BusyInterval, 0, len(blocked))
		for _, b := range blocked {
			blockedBusy = append(blockedBusy, b.Interval())
		}
		if domain.OverlapsAny(req.StartTime, service.DurationMinutes, blockedBusy) {
			uc.logger.Warn("CreateBooking: slot %s blocked by admin", req.StartTime)
			return ErrSlotNotAvailable
		}

		// 5.5. Активные записи на дату с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetByDate(txCtx, req.Date, true)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 5.6. Проверка конфликтов: своя пересекающаяся запись дает
		// отдельную ошибку, чужая — общий отказ по занятости
		reqEnd, err := req.StartTime.AddMinutes(service.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to calculate slot end: %w", ErrInternal, err)
		}
		for _, apt := range appointments {
			aptEnd, err := apt.StartTime.AddMinutes(apt.DurationMinutes)
			if err != nil {
				continue
			}
			if !domain.IntervalsOverlap(req.StartTime, reqEnd, apt.StartTime, aptEnd) {
				continue
			}
			if apt.ClientID == client.ID {
				uc.logger.Warn("CreateBooking: client id=%d already has appointment id=%d at this time",
					client.ID, apt.ID)
				return ErrDuplicateBooking
			}
			uc.logger.Warn("CreateBooking: slot %s conflicts with appointment id=%d", req.StartTime, apt.ID)
			return ErrSlotNotAvailable
		}

		// 5.7. Создаем запись со снимком длительности и цены услуги
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ClientID:        client.ID,
			ServiceID:       service.ID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			Status:          domain.StatusPending,
			DurationMinutes: service.DurationMinutes,
			TotalPrice:      service.Price,
			Notes:           req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигравший гонку за слот после исчерпания повторов получает
		// конфликт занятости, а не внутреннюю ошибку
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: serialization conflict persists after retries: %v", err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d for client id=%d", result.ID, client.ID)

	// 6. Уведомление best-effort, вне транзакции
	uc.notifier.Notify(domain.Event{
		Type:        domain.EventCreated,
		Appointment: result,
		Client:      client,
		Service:     service,
	})

	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		ServiceID:       result.ServiceID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		TotalPrice:      result.TotalPrice,
		Status:          string(result.Status),
		ServiceName:     service.Name,
		ClientName:      client.Name,
		Phone:           client.Phone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
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
