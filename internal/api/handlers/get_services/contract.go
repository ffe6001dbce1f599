package get_services

import (
	"context"

	"github.com/avdmitr/salon-booking-service/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetServices(ctx context.Context) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
