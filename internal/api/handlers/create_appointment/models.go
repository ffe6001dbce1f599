package create_appointment

import (
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	createBooking "github.com/avdmitr/salon-booking-service/internal/usecase/create_booking"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ClientName       string  `json:"clientName"`
	Phone            string  `json:"phone"`
	Email            *string `json:"email,omitempty"`
	TelegramID       *int64  `json:"telegramId,omitempty"`
	TelegramUsername *string `json:"telegramUsername,omitempty"`
	ServiceID        int64   `json:"serviceId"`
	Date             string  `json:"date"`      // "2026-09-15"
	StartTime        string  `json:"startTime"` // "10:00"
	Notes            *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalPrice      float64 `json:"totalPrice"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ClientName      string  `json:"clientName"`
	Phone           string  `json:"phone"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(byAdmin bool) (*createBooking.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, time.Local)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientName:       r.ClientName,
		Phone:            r.Phone,
		Email:            r.Email,
		TelegramID:       r.TelegramID,
		TelegramUsername: r.TelegramUsername,
		ServiceID:        r.ServiceID,
		Date:             date,
		StartTime:        startTime,
		Notes:            r.Notes,
		ByAdmin:          byAdmin,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		ClientID:        resp.ClientID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		TotalPrice:      resp.TotalPrice,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ClientName:      resp.ClientName,
		Phone:           resp.Phone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
