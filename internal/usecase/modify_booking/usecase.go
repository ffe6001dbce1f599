package modify_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	appointmentRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/appointment"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/pkg/txmanager"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// UseCase use case для отмены и переноса записи клиентом
// Владение записью подтверждается телефоном: записи других клиентов
// неотличимы от несуществующих
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

// Cancel отменяет запись клиента
func (uc *UseCase) Cancel(ctx context.Context, req *CancelRequest) (*Response, error) {
	uc.logger.Info("CancelBooking: appointment=%d", req.AppointmentID)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	phone, err := domain.NormalizePhone(req.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	apt, client, err := uc.getOwnedAppointment(ctx, req.AppointmentID, phone)
	if err != nil {
		return nil, err
	}

	if err := validateModifiable(apt, now, uc.settings.MinModifyNoticeMinutes); err != nil {
		uc.logger.Warn("CancelBooking: appointment id=%d: %v", apt.ID, err)
		return nil, err
	}

	if err := uc.appointmentRepo.UpdateStatus(ctx, apt.ID, domain.StatusCancelled); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelBooking: failed to update status: %v", err)
		return nil, fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
	}
	apt.Status = domain.StatusCancelled

	uc.logger.Info("CancelBooking: appointment id=%d cancelled", apt.ID)

	uc.notify(ctx, domain.EventCancelled, apt, client)

	return toResponse(apt), nil
}

// Reschedule переносит запись клиента на новый слот
// Проверка доступности нового слота и перенос идут в одной сериализуемой
// транзакции; собственная запись не считается конфликтом
func (uc *UseCase) Reschedule(ctx context.Context, req *RescheduleRequest) (*Response, error) {
	uc.logger.Info("RescheduleBooking: appointment=%d, new_date=%s, new_time=%s",
		req.AppointmentID, req.NewDate.Format(domain.DateFormat), req.NewTime)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	phone, err := domain.NormalizePhone(req.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}
	if req.NewDate.IsZero() {
		return nil, fmt.Errorf("%w: newDate is required", ErrInvalidInput)
	}
	if err := req.NewTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid newTime format: %v", ErrInvalidInput, err)
	}

	now := uc.timeProvider.Now()

	if err := validateNewDate(req.NewDate, now, uc.settings.BookingDaysAhead); err != nil {
		uc.logger.Warn("RescheduleBooking: date validation failed: %v", err)
		return nil, err
	}

	var apt *domain.Appointment
	var client *domain.Client

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		apt, client, err = uc.getOwnedAppointment(txCtx, req.AppointmentID, phone)
		if err != nil {
			return err
		}

		// Отсечка считается от текущего времени записи, не от нового
		if err := validateModifiable(apt, now, uc.settings.MinModifyNoticeMinutes); err != nil {
			uc.logger.Warn("RescheduleBooking: appointment id=%d: %v", apt.ID, err)
			return err
		}

		// Новый слот должен начинаться в будущем
		if err := uc.validateNewStart(req.NewDate, req.NewTime, now); err != nil {
			return err
		}

		window, err := uc.resolveWindow(txCtx, req.NewDate)
		if err != nil {
			return err
		}
		if !window.IsOpen {
			uc.logger.Warn("RescheduleBooking: closed on %s", req.NewDate.Format(domain.DateFormat))
			return ErrDayClosed
		}

		if err := validateSlotFitsWindow(req.NewTime, apt.DurationMinutes, window, uc.settings.SlotDurationMinutes); err != nil {
			uc.logger.Warn("RescheduleBooking: slot validation failed: %v", err)
			return err
		}

		blocked, err := uc.scheduleRepo.GetBlockedByDate(txCtx, req.NewDate)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get blocked slots: %v", err)
			return fmt.Errorf("%w: failed to get blocked slots: %w", ErrInternal, err)
		}
		blockedBusy := make([]domain.BusyInterval, 0, len(blocked))
		for _, b := range blocked {
			blockedBusy = append(blockedBusy, b.Interval())
		}
		if domain.OverlapsAny(req.NewTime, apt.DurationMinutes, blockedBusy) {
			uc.logger.Warn("RescheduleBooking: slot %s blocked by admin", req.NewTime)
			return ErrSlotNotAvailable
		}

		// Активные записи нового дня с блокировкой (FOR UPDATE)
		// Собственная запись исключается: перенос внутри своего же
		// интервала не конфликтует сам с собой
		appointments, err := uc.appointmentRepo.GetByDate(txCtx, req.NewDate, true)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		newEnd, err := req.NewTime.AddMinutes(apt.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to calculate slot end: %w", ErrInternal, err)
		}
		for _, other := range appointments {
			if other.ID == apt.ID {
				continue
			}
			otherEnd, err := other.StartTime.AddMinutes(other.DurationMinutes)
			if err != nil {
				continue
			}
			if domain.IntervalsOverlap(req.NewTime, newEnd, other.StartTime, otherEnd) {
				uc.logger.Warn("RescheduleBooking: slot %s conflicts with appointment id=%d", req.NewTime, other.ID)
				return ErrSlotNotAvailable
			}
		}

		if err := uc.appointmentRepo.UpdateSchedule(txCtx, apt.ID, req.NewDate, req.NewTime); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to update schedule: %v", err)
			return fmt.Errorf("%w: failed to update schedule: %w", ErrInternal, err)
		}

		apt.Date = req.NewDate
		apt.StartTime = req.NewTime
		return nil
	})

	if err != nil {
		// Проигравший гонку за новый слот после исчерпания повторов
		// получает конфликт занятости, а не внутреннюю ошибку
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("RescheduleBooking: serialization conflict persists after retries: %v", err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: appointment id=%d moved to %s %s",
		apt.ID, apt.Date.Format(domain.DateFormat), apt.StartTime)

	uc.notify(ctx, domain.EventRescheduled, apt, client)

	return toResponse(apt), nil
}

// getOwnedAppointment загружает запись и проверяет владение по телефону
func (uc *UseCase) getOwnedAppointment(ctx context.Context, id int64, phone string) (*domain.Appointment, *domain.Client, error) {
	apt, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ModifyBooking: appointment id=%d not found", id)
			return nil, nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ModifyBooking: failed to get appointment id=%d: %v", id, err)
		return nil, nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}

	client, err := uc.clientRepo.GetByID(ctx, apt.ClientID)
	if err != nil {
		uc.logger.Error("ModifyBooking: failed to get client id=%d: %v", apt.ClientID, err)
		return nil, nil, fmt.Errorf("%w: failed to get client: %w", ErrInternal, err)
	}

	if err := validateOwnership(client, phone); err != nil {
		uc.logger.Warn("ModifyBooking: phone mismatch for appointment id=%d", id)
		return nil, nil, err
	}

	return apt, client, nil
}

// validateNewStart проверяет, что новый слот начинается строго в будущем
func (uc *UseCase) validateNewStart(date time.Time, start types.TimeString, now time.Time) error {
	startsAt, err := start.On(date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if !startsAt.After(now) {
		return fmt.Errorf("%w: slot start is in the past", ErrInvalidTimeSlot)
	}
	return nil
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

// notify отправляет уведомление best-effort, ошибки каталога не критичны
func (uc *UseCase) notify(ctx context.Context, eventType domain.EventType, apt *domain.Appointment, client *domain.Client) {
	service, err := uc.catalogRepo.GetByID(ctx, apt.ServiceID)
	if err != nil {
		uc.logger.Warn("ModifyBooking: failed to load service for notification: %v", err)
		service = nil
	}

	uc.notifier.Notify(domain.Event{
		Type:        eventType,
		Appointment: apt,
		Client:      client,
		Service:     service,
	})
}

func toResponse(apt *domain.Appointment) *Response {
	return &Response{
		ID:              apt.ID,
		ServiceID:       apt.ServiceID,
		Date:            apt.Date,
		StartTime:       apt.StartTime,
		DurationMinutes: apt.DurationMinutes,
		TotalPrice:      apt.TotalPrice,
		Status:          string(apt.Status),
		Notes:           apt.Notes,
		UpdatedAt:       apt.UpdatedAt,
	}
}
