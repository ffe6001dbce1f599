package get_day_appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/avdmitr/salon-booking-service/internal/api/handlers"
	"github.com/avdmitr/salon-booking-service/internal/domain"
	appointmentsService "github.com/avdmitr/salon-booking-service/internal/service/appointments"
	"github.com/avdmitr/salon-booking-service/internal/service/appointments/models"
)

const (
	msgDateRequired = "требуется параметр date"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/appointments?date=2026-09-15&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /admin/appointments - Missing date parameter")
		handlers.RespondBadRequest(w, msgDateRequired)
		return
	}

	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.Local)
	if err != nil {
		h.logger.Warn("GET /admin/appointments - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	result, err := h.service.GetDayAppointments(r.Context(), &models.GetDayAppointmentsRequest{
		Date:            date,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /admin/appointments - Failed: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/appointments - %d appointments returned for %s",
		len(result.Appointments), dateStr)
	handlers.RespondJSON(w, http.StatusOK, result)
}
