package manage_blocked_slots

import (
	"time"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	blockSlot "github.com/avdmitr/salon-booking-service/internal/usecase/block_slot"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

// BlockSlotRequest HTTP request model для блокировки одного слота
type BlockSlotRequest struct {
	Date            string  `json:"date"`      // "2026-09-15"
	StartTime       string  `json:"startTime"` // "12:00"
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Reason          *string `json:"reason,omitempty"`
}

// BlockDayRequest HTTP request model для блокировки целого дня
type BlockDayRequest struct {
	Date   string  `json:"date"` // "2026-09-15"
	Reason *string `json:"reason,omitempty"`
}

// BlockedSlotResponse HTTP response model
type BlockedSlotResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Reason          *string `json:"reason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// BlockDayResponse HTTP response model итога блокировки дня
type BlockDayResponse struct {
	Date    string                `json:"date"`
	Blocked []BlockedSlotResponse `json:"blocked"`
	Skipped []string              `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос блокировки слота в модель use case
func (r *BlockSlotRequest) ToUseCaseRequest() (*blockSlot.BlockRequest, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, time.Local)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &blockSlot.BlockRequest{
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		Reason:          r.Reason,
	}, nil
}

// ToUseCaseRequest конвертирует HTTP запрос блокировки дня в модель use case
func (r *BlockDayRequest) ToUseCaseRequest() (*blockSlot.BlockDayRequest, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, time.Local)
	if err != nil {
		return nil, err
	}

	return &blockSlot.BlockDayRequest{
		Date:   date,
		Reason: r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует блокировку в HTTP response
func FromUseCaseResponse(resp *blockSlot.BlockedSlotResponse) *BlockedSlotResponse {
	return &BlockedSlotResponse{
		ID:              resp.ID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Reason:          resp.Reason,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}

// FromBlockDayResponse конвертирует итог блокировки дня в HTTP response
func FromBlockDayResponse(resp *blockSlot.BlockDayResponse) *BlockDayResponse {
	blocked := make([]BlockedSlotResponse, 0, len(resp.Blocked))
	for i := range resp.Blocked {
		blocked = append(blocked, *FromUseCaseResponse(&resp.Blocked[i]))
	}

	skipped := make([]string, 0, len(resp.Skipped))
	for _, slot := range resp.Skipped {
		skipped = append(skipped, slot.String())
	}

	return &BlockDayResponse{
		Date:    resp.Date.Format(domain.DateFormat),
		Blocked: blocked,
		Skipped: skipped,
	}
}
