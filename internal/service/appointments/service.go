package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	appointmentRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/appointment"
	clientRepo "github.com/avdmitr/salon-booking-service/internal/infra/storage/client"
	"github.com/avdmitr/salon-booking-service/internal/service/appointments/models"
)

// Service сервис для чтения записей и административного управления их статусами
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	catalogRepo     CatalogRepository
	notifier        Notifier
	settings        domain.BookingSettings
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	catalogRepo CatalogRepository,
	notifier Notifier,
	settings domain.BookingSettings,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		catalogRepo:     catalogRepo,
		notifier:        notifier,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetMyAppointments получает предстоящие записи клиента по телефону
// Неизвестный телефон дает пустой список, а не ошибку:
// существование клиентов не раскрывается
func (s *Service) GetMyAppointments(ctx context.Context, req *models.GetMyAppointmentsRequest) (*models.AppointmentListResponse, error) {
	phone, err := domain.NormalizePhone(req.Phone)
	if err != nil {
		s.logger.Warn("GetMyAppointments: invalid phone")
		return nil, fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}

	s.logger.Info("GetMyAppointments: fetching appointments for phone=%s", phone)

	client, err := s.clientRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Info("GetMyAppointments: no client found for phone=%s", phone)
			return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}, nil
		}
		s.logger.Error("GetMyAppointments: failed to get client: %v", err)
		return nil, fmt.Errorf("%w: GetMyAppointments - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	appointments, err := s.appointmentRepo.GetByClientID(ctx, client.ID, truncateToDay(now))
	if err != nil {
		s.logger.Error("GetMyAppointments: repository error for client id=%d: %v", client.ID, err)
		return nil, fmt.Errorf("%w: GetMyAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMyAppointments: fetched %d appointments for client id=%d", len(appointments), client.ID)

	resp := models.FromDomainAppointmentList(appointments)
	s.enrichServiceNames(ctx, resp)
	s.setModifyFlags(resp, appointments, now)
	return resp, nil
}

// setModifyFlags выставляет флаги самостоятельной отмены и переноса.
// Правило совпадает с проверкой при изменении записи: активный статус
// и не позже отсечки перед началом
func (s *Service) setModifyFlags(resp *models.AppointmentListResponse, appointments []*domain.Appointment, now time.Time) {
	cutoff := time.Duration(s.settings.MinModifyNoticeMinutes) * time.Minute
	for i, apt := range appointments {
		if i >= len(resp.Appointments) {
			break
		}
		if !apt.CanBeModified() {
			continue
		}
		startsAt, err := apt.StartsAt()
		if err != nil {
			continue
		}
		modifiable := startsAt.Sub(now) >= cutoff
		resp.Appointments[i].CanCancel = modifiable
		resp.Appointments[i].CanReschedule = modifiable
	}
}

// GetDayAppointments получает записи на дату для администратора
// По умолчанию только активные; IncludeInactive добавляет отмененные и завершенные
func (s *Service) GetDayAppointments(ctx context.Context, req *models.GetDayAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDayAppointments: fetching appointments for date=%s, includeInactive=%t",
		req.Date.Format(domain.DateFormat), req.IncludeInactive)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByDate(ctx, req.Date, !req.IncludeInactive)
	if err != nil {
		s.logger.Error("GetDayAppointments: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetDayAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDayAppointments: fetched %d appointments for %s",
		len(appointments), req.Date.Format(domain.DateFormat))

	resp := models.FromDomainAppointmentList(appointments)
	s.enrichClientData(ctx, resp)
	s.enrichServiceNames(ctx, resp)
	return resp, nil
}

// UpdateStatus переводит запись в новый статус
// Допустимость перехода проверяется по конечному автомату статусов:
// запрещенный переход дает ошибку с текущим и целевым статусами
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s", appointmentID, req.Status)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	apt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !apt.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			apt.Status, newStatus, appointmentID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, apt.Status, newStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}
	apt.Status = newStatus

	s.logger.Info("UpdateStatus: appointment id=%d updated to status=%s", appointmentID, newStatus)

	s.notifyStatusChange(ctx, apt)

	return models.FromDomainAppointment(apt), nil
}

// GetServices возвращает активные услуги каталога
func (s *Service) GetServices(ctx context.Context) (*models.ServiceListResponse, error) {
	s.logger.Info("GetServices: fetching active services")

	services, err := s.catalogRepo.GetActive(ctx)
	if err != nil {
		s.logger.Error("GetServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetServices - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetServices: fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}

// notifyStatusChange отправляет уведомление о смене статуса
// Подтверждение и отмена интересны клиенту, остальные переходы тихие
func (s *Service) notifyStatusChange(ctx context.Context, apt *domain.Appointment) {
	var eventType domain.EventType
	switch apt.Status {
	case domain.StatusConfirmed:
		eventType = domain.EventConfirmed
	case domain.StatusCancelled:
		eventType = domain.EventCancelled
	default:
		return
	}

	client, err := s.clientRepo.GetByID(ctx, apt.ClientID)
	if err != nil {
		s.logger.Warn("notifyStatusChange: failed to load client id=%d: %v", apt.ClientID, err)
	}
	service, err := s.catalogRepo.GetByID(ctx, apt.ServiceID)
	if err != nil {
		s.logger.Warn("notifyStatusChange: failed to load service id=%d: %v", apt.ServiceID, err)
	}

	s.notifier.Notify(domain.Event{
		Type:        eventType,
		Appointment: apt,
		Client:      client,
		Service:     service,
	})
}

// enrichClientData дополняет ответ именем и телефоном клиента
// Ошибки загрузки не прерывают ответ
func (s *Service) enrichClientData(ctx context.Context, resp *models.AppointmentListResponse) {
	cache := make(map[int64]*domain.Client)
	for i := range resp.Appointments {
		clientID := resp.Appointments[i].ClientID
		client, ok := cache[clientID]
		if !ok {
			loaded, err := s.clientRepo.GetByID(ctx, clientID)
			if err != nil {
				s.logger.Warn("enrichClientData: failed to load client id=%d: %v", clientID, err)
				continue
			}
			client = loaded
			cache[clientID] = client
		}
		resp.Appointments[i].ClientName = client.Name
		resp.Appointments[i].ClientPhone = client.Phone
	}
}

// enrichServiceNames дополняет ответ названиями услуг
func (s *Service) enrichServiceNames(ctx context.Context, resp *models.AppointmentListResponse) {
	cache := make(map[int64]*domain.Service)
	for i := range resp.Appointments {
		serviceID := resp.Appointments[i].ServiceID
		service, ok := cache[serviceID]
		if !ok {
			loaded, err := s.catalogRepo.GetByID(ctx, serviceID)
			if err != nil {
				s.logger.Warn("enrichServiceNames: failed to load service id=%d: %v", serviceID, err)
				continue
			}
			service = loaded
			cache[serviceID] = service
		}
		resp.Appointments[i].ServiceName = service.Name
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
