package get_my_appointments

import (
	"errors"
	"net/http"

	"github.com/avdmitr/salon-booking-service/internal/api/handlers"
	appointmentsService "github.com/avdmitr/salon-booking-service/internal/service/appointments"
	"github.com/avdmitr/salon-booking-service/internal/service/appointments/models"
)

const (
	msgPhoneRequired = "требуется номер телефона"
	msgInvalidPhone  = "некорректный номер телефона"
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

// Handle GET /api/v1/appointments/my?phone=+79991234567
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		h.logger.Warn("GET /appointments/my - Missing phone parameter")
		handlers.RespondBadRequest(w, msgPhoneRequired)
		return
	}

	result, err := h.service.GetMyAppointments(r.Context(), &models.GetMyAppointmentsRequest{Phone: phone})
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("GET /appointments/my - Invalid phone")
			handlers.RespondBadRequest(w, msgInvalidPhone)

		default:
			h.logger.Error("GET /appointments/my - Failed to get appointments: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/my - %d appointments returned", len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
