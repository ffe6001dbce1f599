package manage_blocked_slots

import (
	"context"
	"time"

	scheduleModels "github.com/avdmitr/salon-booking-service/internal/service/schedule/models"
	blockSlot "github.com/avdmitr/salon-booking-service/internal/usecase/block_slot"
)

type BlockSlotUseCase interface {
	Block(ctx context.Context, req *blockSlot.BlockRequest) (*blockSlot.BlockedSlotResponse, error)
	Unblock(ctx context.Context, req *blockSlot.UnblockRequest) error
	BlockDay(ctx context.Context, req *blockSlot.BlockDayRequest) (*blockSlot.BlockDayResponse, error)
}

type ScheduleService interface {
	GetBlockedSlots(ctx context.Context, date time.Time) (*scheduleModels.BlockedSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
