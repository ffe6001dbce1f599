package manage_schedule

import (
	"errors"
	"net/http"

	"github.com/avdmitr/salon-booking-service/internal/api/handlers"
	scheduleService "github.com/avdmitr/salon-booking-service/internal/service/schedule"
	scheduleModels "github.com/avdmitr/salon-booking-service/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDayOfWeek   = "некорректный день недели, ожидается 0-6"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGetSalonWeek GET /api/v1/admin/schedule
func (h *Handler) HandleGetSalonWeek(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSalonWeek(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/schedule - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdateSalonDay PUT /api/v1/admin/schedule
func (h *Handler) HandleUpdateSalonDay(w http.ResponseWriter, r *http.Request) {
	var req scheduleModels.UpdateDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSalonDay(r.Context(), &req)
	if err != nil {
		h.respondUpdateError(w, "PUT /admin/schedule", err)
		return
	}

	h.logger.Info("PUT /admin/schedule - Updated: day=%d, working=%t", result.DayOfWeek, result.IsWorking)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGetMasterWeek GET /api/v1/admin/availability
func (h *Handler) HandleGetMasterWeek(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetMasterWeek(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/availability - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdateMasterDay PUT /api/v1/admin/availability
func (h *Handler) HandleUpdateMasterDay(w http.ResponseWriter, r *http.Request) {
	var req scheduleModels.UpdateDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateMasterDay(r.Context(), &req)
	if err != nil {
		h.respondUpdateError(w, "PUT /admin/availability", err)
		return
	}

	h.logger.Info("PUT /admin/availability - Updated: day=%d, working=%t", result.DayOfWeek, result.IsWorking)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondUpdateError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, scheduleService.ErrInvalidDayOfWeek):
		h.logger.Warn("%s - Invalid day of week: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)

	case errors.Is(err, scheduleService.ErrInvalidTimeRange):
		h.logger.Warn("%s - Invalid time range: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTimeRange)

	case errors.Is(err, scheduleService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
