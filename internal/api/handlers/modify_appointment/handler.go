package modify_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdmitr/salon-booking-service/internal/api/handlers"
	modifyBooking "github.com/avdmitr/salon-booking-service/internal/usecase/modify_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidID           = "некорректный идентификатор записи"
	msgPhoneRequired       = "требуется номер телефона"
	msgUnknownAction       = "неизвестное действие, ожидается cancel или reschedule"
	msgInvalidDateTime     = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgAppointmentNotFound = "запись не найдена"
	msgNotModifiable       = "запись нельзя изменить в текущем статусе"
	msgTooLateToModify     = "запись нельзя изменить менее чем за 2 часа до начала"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgDayClosed           = "салон не работает в выбранную дату"
	msgInvalidDate         = "некорректная дата записи"
	msgDateTooFar          = "дата записи слишком далеко в будущем"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgInvalidInput        = "некорректные данные запроса"
)

type Handler struct {
	useCase ModifyBookingUseCase
	logger  Logger
}

func NewHandler(useCase ModifyBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}?phone=+79991234567
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("PATCH /appointments - Invalid appointment id: %q", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	phone := r.URL.Query().Get("phone")
	if phone == "" {
		h.logger.Warn("PATCH /appointments - Missing phone parameter")
		handlers.RespondBadRequest(w, msgPhoneRequired)
		return
	}

	var req ModifyAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *modifyBooking.Response

	switch req.Action {
	case ActionCancel:
		result, err = h.useCase.Cancel(r.Context(), &modifyBooking.CancelRequest{
			AppointmentID: appointmentID,
			Phone:         phone,
		})

	case ActionReschedule:
		rescheduleReq, parseErr := req.ToRescheduleRequest(appointmentID, phone)
		if parseErr != nil {
			h.logger.Warn("PATCH /appointments - Failed to parse reschedule request: %v", parseErr)
			handlers.RespondBadRequest(w, msgInvalidDateTime)
			return
		}
		result, err = h.useCase.Reschedule(r.Context(), rescheduleReq)

	default:
		h.logger.Warn("PATCH /appointments - Unknown action: %q", req.Action)
		handlers.RespondBadRequest(w, msgUnknownAction)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, modifyBooking.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, modifyBooking.ErrNotModifiable):
			h.logger.Warn("PATCH /appointments - Not modifiable: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusForbidden, msgNotModifiable)

		case errors.Is(err, modifyBooking.ErrTooLateToModify):
			h.logger.Warn("PATCH /appointments - Too late to modify: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusForbidden, msgTooLateToModify)

		case errors.Is(err, modifyBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /appointments - Slot not available: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, modifyBooking.ErrDayClosed):
			handlers.RespondBadRequest(w, msgDayClosed)

		case errors.Is(err, modifyBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, modifyBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, modifyBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, modifyBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /appointments - Failed: appointment_id=%d, action=%s, error=%v",
				appointmentID, req.Action, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments - Appointment %s: appointment_id=%d", req.Action, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
