package block_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	scheduleRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/schedule"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// UseCase use case для административных блокировок слотов
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	settings        domain.BookingSettings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	settings domain.BookingSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Block блокирует один интервал
// Конфликт с существующей блокировкой или активной записью проверяется
// до вставки тем же предикатом пересечения, что и при бронировании;
// гонку двойной блокировки закрывает уникальное ограничение БД:
// проигравшая вставка получает ErrSlotAlreadyBlocked
func (uc *UseCase) Block(ctx context.Context, req *BlockRequest) (*BlockedSlotResponse, error) {
	uc.logger.Info("BlockSlot: date=%s, time=%s", req.Date.Format(domain.DateFormat), req.StartTime)

	if err := uc.validateDateTime(req.Date, req.StartTime); err != nil {
		return nil, err
	}
	if req.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters",
			ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = uc.settings.SlotDurationMinutes
	}

	blockedBusy, occupiedBusy, err := uc.collectBusy(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if domain.OverlapsAny(req.StartTime, duration, blockedBusy) {
		uc.logger.Warn("BlockSlot: interval %s+%dm on %s overlaps an existing block",
			req.StartTime, duration, req.Date.Format(domain.DateFormat))
		return nil, ErrSlotAlreadyBlocked
	}
	if domain.OverlapsAny(req.StartTime, duration, occupiedBusy) {
		uc.logger.Warn("BlockSlot: interval %s+%dm on %s overlaps an active appointment",
			req.StartTime, duration, req.Date.Format(domain.DateFormat))
		return nil, ErrSlotOccupied
	}

	created, err := uc.scheduleRepo.CreateBlocked(ctx, &domain.BlockedSlot{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		Reason:          req.Reason,
	})
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSlotAlreadyBlocked) {
			uc.logger.Warn("BlockSlot: slot %s on %s already blocked", req.StartTime, req.Date.Format(domain.DateFormat))
			return nil, ErrSlotAlreadyBlocked
		}
		uc.logger.Error("BlockSlot: failed to create blocked slot: %v", err)
		return nil, fmt.Errorf("%w: failed to create blocked slot: %w", ErrInternal, err)
	}

	uc.logger.Info("BlockSlot: blocked slot id=%d created", created.ID)

	return toResponse(created), nil
}

// Unblock снимает блокировку по точной паре (дата, время)
func (uc *UseCase) Unblock(ctx context.Context, req *UnblockRequest) error {
	uc.logger.Info("UnblockSlot: date=%s, time=%s", req.Date.Format(domain.DateFormat), req.StartTime)

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	err := uc.scheduleRepo.DeleteBlocked(ctx, req.Date, req.StartTime.String())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedSlotNotFound) {
			uc.logger.Warn("UnblockSlot: blocked slot not found")
			return ErrBlockedSlotNotFound
		}
		uc.logger.Error("UnblockSlot: failed to delete blocked slot: %v", err)
		return fmt.Errorf("%w: failed to delete blocked slot: %w", ErrInternal, err)
	}

	uc.logger.Info("UnblockSlot: slot %s on %s unblocked", req.StartTime, req.Date.Format(domain.DateFormat))
	return nil
}

// BlockDay блокирует все свободные на момент вызова слоты рабочего окна.
// Слоты, занятые активными записями или существующими блокировками,
// попадают в Skipped; слоты, заблокированные конкурентным вызовом между
// чтением и вставкой, тоже пропускаются, а не роняют весь батч.
// Повторный вызов на тот же день идемпотентен
func (uc *UseCase) BlockDay(ctx context.Context, req *BlockDayRequest) (*BlockDayResponse, error) {
	uc.logger.Info("BlockDay: date=%s", req.Date.Format(domain.DateFormat))

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if uc.isDateInPast(req.Date) {
		return nil, ErrInvalidDate
	}
	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters",
			ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	window, err := uc.resolveWindow(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if !window.IsOpen {
		uc.logger.Warn("BlockDay: closed on %s", req.Date.Format(domain.DateFormat))
		return nil, ErrDayClosed
	}

	blockedBusy, occupiedBusy, err := uc.collectBusy(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	step := uc.settings.SlotDurationMinutes
	resp := &BlockDayResponse{
		Date:    req.Date,
		Blocked: make([]BlockedSlotResponse, 0),
		Skipped: make([]types.TimeString, 0),
	}

	currentSlot := window.Start
	for currentSlot.IsBefore(window.End) {
		slotEnd, err := currentSlot.AddMinutes(step)
		if err != nil {
			break
		}
		if slotEnd.IsAfter(window.End) {
			break
		}

		if domain.OverlapsAny(currentSlot, step, blockedBusy) ||
			domain.OverlapsAny(currentSlot, step, occupiedBusy) {
			resp.Skipped = append(resp.Skipped, currentSlot)
			currentSlot = slotEnd
			continue
		}

		created, err := uc.scheduleRepo.CreateBlocked(ctx, &domain.BlockedSlot{
			Date:            req.Date,
			StartTime:       currentSlot,
			DurationMinutes: step,
			Reason:          req.Reason,
		})
		switch {
		case err == nil:
			resp.Blocked = append(resp.Blocked, *toResponse(created))
		case errors.Is(err, scheduleRepo.ErrSlotAlreadyBlocked):
			resp.Skipped = append(resp.Skipped, currentSlot)
		default:
			uc.logger.Error("BlockDay: failed to block slot %s: %v", currentSlot, err)
			return nil, fmt.Errorf("%w: failed to block slot %s: %w", ErrInternal, currentSlot, err)
		}

		currentSlot = slotEnd
	}

	uc.logger.Info("BlockDay: %d slots blocked, %d skipped on %s",
		len(resp.Blocked), len(resp.Skipped), req.Date.Format(domain.DateFormat))

	return resp, nil
}

// collectBusy собирает занятые интервалы даты: существующие блокировки
// и активные записи отдельно, чтобы различать причину конфликта
func (uc *UseCase) collectBusy(ctx context.Context, date time.Time) (blocked, occupied []domain.BusyInterval, err error) {
	blockedSlots, err := uc.scheduleRepo.GetBlockedByDate(ctx, date)
	if err != nil {
		uc.logger.Error("BlockSlot: failed to get blocked slots: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get blocked slots: %w", ErrInternal, err)
	}
	for _, b := range blockedSlots {
		blocked = append(blocked, b.Interval())
	}

	appointments, err := uc.appointmentRepo.GetByDate(ctx, date, true)
	if err != nil {
		uc.logger.Error("BlockSlot: failed to get appointments: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}
	for _, apt := range appointments {
		if !apt.IsActive() {
			continue
		}
		occupied = append(occupied, apt.Interval())
	}

	return blocked, occupied, nil
}

func (uc *UseCase) validateDateTime(date time.Time, start types.TimeString) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}
	if uc.isDateInPast(date) {
		return ErrInvalidDate
	}
	return nil
}

func (uc *UseCase) isDateInPast(date time.Time) bool {
	now := uc.timeProvider.Now()
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
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

func toResponse(slot *domain.BlockedSlot) *BlockedSlotResponse {
	return &BlockedSlotResponse{
		ID:              slot.ID,
		Date:            slot.Date,
		StartTime:       slot.StartTime,
		DurationMinutes: slot.DurationMinutes,
		Reason:          slot.Reason,
		CreatedAt:       slot.CreatedAt,
	}
}
