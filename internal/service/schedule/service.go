package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/internal/service/schedule/models"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// Service сервис для управления недельными шаблонами расписания
type Service struct {
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(scheduleRepo ScheduleRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// GetSalonWeek возвращает недельный шаблон салона
// Дни без сохраненной строки заполняются дефолтами и помечаются isDefault
func (s *Service) GetSalonWeek(ctx context.Context) (*models.WeekResponse, error) {
	s.logger.Info("GetSalonWeek: fetching salon schedule")

	entries, err := s.scheduleRepo.GetSalonWeek(ctx)
	if err != nil {
		s.logger.Error("GetSalonWeek: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSalonWeek - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(entries), nil
}

// GetMasterWeek возвращает недельный шаблон доступности мастера
func (s *Service) GetMasterWeek(ctx context.Context) (*models.WeekResponse, error) {
	s.logger.Info("GetMasterWeek: fetching master availability")

	entries, err := s.scheduleRepo.GetMasterWeek(ctx)
	if err != nil {
		s.logger.Error("GetMasterWeek: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetMasterWeek - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(entries), nil
}

// UpdateSalonDay создает или обновляет строку шаблона салона
func (s *Service) UpdateSalonDay(ctx context.Context, req *models.UpdateDayRequest) (*models.DayResponse, error) {
	s.logger.Info("UpdateSalonDay: day=%d, working=%t, %s-%s",
		req.DayOfWeek, req.IsWorking, req.StartTime, req.EndTime)

	entry, err := s.toDomainEntry(req)
	if err != nil {
		s.logger.Warn("UpdateSalonDay: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.scheduleRepo.UpsertSalonDay(ctx, entry)
	if err != nil {
		s.logger.Error("UpdateSalonDay: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSalonDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSalonDay: day=%d updated", updated.DayOfWeek)

	resp := models.FromDomainEntry(updated, false)
	return &resp, nil
}

// UpdateMasterDay создает или обновляет строку доступности мастера
func (s *Service) UpdateMasterDay(ctx context.Context, req *models.UpdateDayRequest) (*models.DayResponse, error) {
	s.logger.Info("UpdateMasterDay: day=%d, working=%t, %s-%s",
		req.DayOfWeek, req.IsWorking, req.StartTime, req.EndTime)

	entry, err := s.toDomainEntry(req)
	if err != nil {
		s.logger.Warn("UpdateMasterDay: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.scheduleRepo.UpsertMasterDay(ctx, entry)
	if err != nil {
		s.logger.Error("UpdateMasterDay: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateMasterDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateMasterDay: day=%d updated", updated.DayOfWeek)

	resp := models.FromDomainEntry(updated, false)
	return &resp, nil
}

// GetBlockedSlots возвращает блокировки на дату
func (s *Service) GetBlockedSlots(ctx context.Context, date time.Time) (*models.BlockedSlotListResponse, error) {
	s.logger.Info("GetBlockedSlots: date=%s", date.Format(domain.DateFormat))

	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	blocked, err := s.scheduleRepo.GetBlockedByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetBlockedSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBlockedSlots - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedSlotList(date, blocked), nil
}

// toDomainEntry валидирует запрос и собирает доменную строку шаблона
// Для нерабочего дня времена не обязательны и подменяются дефолтом дня
func (s *Service) toDomainEntry(req *models.UpdateDayRequest) (*domain.ScheduleEntry, error) {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, req.DayOfWeek)
	}

	if !req.IsWorking && req.StartTime == "" && req.EndTime == "" {
		def := domain.DefaultScheduleEntry(req.DayOfWeek)
		return &domain.ScheduleEntry{
			DayOfWeek: req.DayOfWeek,
			StartTime: def.StartTime,
			EndTime:   def.EndTime,
			IsWorking: false,
		}, nil
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, start, end)
	}

	return &domain.ScheduleEntry{
		DayOfWeek: req.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		IsWorking: req.IsWorking,
	}, nil
}
