package modify_appointment

import (
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	modifyBooking "github.com/avdmitr/salon-booking-service/internal/usecase/modify_booking"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// Действия над записью
const (
	ActionCancel     = "cancel"
	ActionReschedule = "reschedule"
)

// ModifyAppointmentRequest HTTP request model
type ModifyAppointmentRequest struct {
	Action  string `json:"action"`            // "cancel" или "reschedule"
	NewDate string `json:"newDate,omitempty"` // "2026-09-15", только для reschedule
	NewTime string `json:"newTime,omitempty"` // "10:00", только для reschedule
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalPrice      float64 `json:"totalPrice"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToRescheduleRequest собирает запрос переноса из HTTP модели
func (r *ModifyAppointmentRequest) ToRescheduleRequest(appointmentID int64, phone string) (*modifyBooking.RescheduleRequest, error) {
	newDate, err := time.ParseInLocation(domain.DateFormat, r.NewDate, time.Local)
	if err != nil {
		return nil, err
	}

	newTime, err := types.NewTimeStringFromString(r.NewTime)
	if err != nil {
		return nil, err
	}

	return &modifyBooking.RescheduleRequest{
		AppointmentID: appointmentID,
		Phone:         phone,
		NewDate:       newDate,
		NewTime:       newTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *modifyBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		TotalPrice:      resp.TotalPrice,
		Status:          resp.Status,
		Notes:           resp.Notes,
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
