package get_schedule

import (
	"github.com/avdmitr/salon-booking-service/internal/domain"
	getAvailableSlots "github.com/avdmitr/salon-booking-service/internal/usecase/get_available_slots"
)

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	Date            string   `json:"date"`
	ServiceID       int64    `json:"serviceId"`
	DurationMinutes int      `json:"durationMinutes"`
	IsOpen          bool     `json:"isOpen"`
	OpenTime        string   `json:"openTime,omitempty"`
	CloseTime       string   `json:"closeTime,omitempty"`
	Slots           []string `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *ScheduleResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, slot.String())
	}

	out := &ScheduleResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		IsOpen:          resp.Window.IsOpen,
		Slots:           slots,
	}
	if resp.Window.IsOpen {
		out.OpenTime = resp.Window.Start.String()
		out.CloseTime = resp.Window.End.String()
	}
	return out
}
