package get_my_appointments

import (
	"context"

	"github.com/avdmitr/salon-booking-service/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetMyAppointments(ctx context.Context, req *models.GetMyAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
