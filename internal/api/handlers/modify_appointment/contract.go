package modify_appointment

import (
	"context"

	modifyBooking "github.com/avdmitr/salon-booking-service/internal/usecase/modify_booking"
)

type ModifyBookingUseCase interface {
	Cancel(ctx context.Context, req *modifyBooking.CancelRequest) (*modifyBooking.Response, error)
	Reschedule(ctx context.Context, req *modifyBooking.RescheduleRequest) (*modifyBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
