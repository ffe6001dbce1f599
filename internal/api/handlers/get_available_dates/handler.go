package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/avdmitr/salon-booking-service/internal/api/handlers"
	"github.com/avdmitr/salon-booking-service/internal/domain"
	getAvailableSlots "github.com/avdmitr/salon-booking-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID = "некорректный идентификатор услуги"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// DatesResponse HTTP response model
type DatesResponse struct {
	ServiceID int64    `json:"serviceId"`
	Dates     []string `json:"dates"`
}

// Handle GET /api/v1/schedule/dates/available?serviceId=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("GET /schedule/dates/available - Invalid serviceId: %q", r.URL.Query().Get("serviceId"))
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.useCase.AvailableDates(r.Context(), &getAvailableSlots.DatesRequest{
		ServiceID: serviceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /schedule/dates/available - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /schedule/dates/available - Failed: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	dates := make([]string, 0, len(result.Dates))
	for _, date := range result.Dates {
		dates = append(dates, date.Format(domain.DateFormat))
	}

	h.logger.Info("GET /schedule/dates/available - %d dates returned: service_id=%d", len(dates), serviceID)
	handlers.RespondJSON(w, http.StatusOK, &DatesResponse{ServiceID: serviceID, Dates: dates})
}
