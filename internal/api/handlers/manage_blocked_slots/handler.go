package manage_blocked_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/api/handlers"
	"github.com/avdmitr/salon-booking-service/internal/domain"
	blockSlot "github.com/avdmitr/salon-booking-service/internal/usecase/block_slot"
	"github.com/avdmitr/salon-booking-service/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgDateRequired       = "требуется параметр date"
	msgTimeRequired       = "требуется параметр time"
	msgAlreadyBlocked     = "слот уже заблокирован"
	msgSlotOccupied       = "слот занят активной записью"
	msgBlockedNotFound    = "блокировка не найдена"
	msgInvalidDate        = "некорректная дата блокировки"
	msgDayClosed          = "салон не работает в выбранную дату"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase         BlockSlotUseCase
	scheduleService ScheduleService
	logger          Logger
}

func NewHandler(useCase BlockSlotUseCase, scheduleService ScheduleService, logger Logger) *Handler {
	return &Handler{
		useCase:         useCase,
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// HandleBlock POST /api/v1/admin/blocked-slots
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	var req BlockSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocked-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /admin/blocked-slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Block(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, blockSlot.ErrSlotAlreadyBlocked):
			h.logger.Warn("POST /admin/blocked-slots - Already blocked: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyBlocked)

		case errors.Is(err, blockSlot.ErrSlotOccupied):
			h.logger.Warn("POST /admin/blocked-slots - Slot occupied: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotOccupied)

		case errors.Is(err, blockSlot.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, blockSlot.ErrInvalidInput):
			h.logger.Warn("POST /admin/blocked-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /admin/blocked-slots - Failed: date=%s, time=%s, error=%v",
				req.Date, req.StartTime, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/blocked-slots - Blocked: id=%d, date=%s, time=%s",
		result.ID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// HandleUnblock DELETE /api/v1/admin/blocked-slots?date=2026-09-15&time=12:00
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	date, startTime, ok := h.parseDateTimeQuery(w, r)
	if !ok {
		return
	}

	err := h.useCase.Unblock(r.Context(), &blockSlot.UnblockRequest{
		Date:      date,
		StartTime: startTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, blockSlot.ErrBlockedSlotNotFound):
			h.logger.Warn("DELETE /admin/blocked-slots - Not found: date=%s, time=%s",
				date.Format(domain.DateFormat), startTime)
			handlers.RespondNotFound(w, msgBlockedNotFound)

		case errors.Is(err, blockSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("DELETE /admin/blocked-slots - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/blocked-slots - Unblocked: date=%s, time=%s",
		date.Format(domain.DateFormat), startTime)
	handlers.RespondNoContent(w)
}

// HandleBlockDay POST /api/v1/admin/blocked-slots/day
func (h *Handler) HandleBlockDay(w http.ResponseWriter, r *http.Request) {
	var req BlockDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocked-slots/day - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /admin/blocked-slots/day - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.BlockDay(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, blockSlot.ErrDayClosed):
			h.logger.Warn("POST /admin/blocked-slots/day - Day closed: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDayClosed)

		case errors.Is(err, blockSlot.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, blockSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /admin/blocked-slots/day - Failed: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/blocked-slots/day - %d blocked, %d skipped: date=%s",
		len(result.Blocked), len(result.Skipped), req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromBlockDayResponse(result))
}

// HandleList GET /api/v1/admin/blocked-slots?date=2026-09-15
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgDateRequired)
		return
	}

	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.Local)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.scheduleService.GetBlockedSlots(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /admin/blocked-slots - Failed: date=%s, error=%v", dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/blocked-slots - %d blocked slots returned for %s",
		len(result.BlockedSlots), dateStr)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parseDateTimeQuery(w http.ResponseWriter, r *http.Request) (time.Time, types.TimeString, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgDateRequired)
		return time.Time{}, "", false
	}

	timeStr := r.URL.Query().Get("time")
	if timeStr == "" {
		handlers.RespondBadRequest(w, msgTimeRequired)
		return time.Time{}, "", false
	}

	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.Local)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return time.Time{}, "", false
	}

	startTime, err := types.NewTimeStringFromString(timeStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return time.Time{}, "", false
	}

	return date, startTime, true
}
