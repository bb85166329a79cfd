package check_slot_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime     = "некорректный формат времени, ожидается HH:MM"
	msgBranchNotFound  = "филиал не найден"
	msgInvalidInput    = "некорректный интервал, начало должно быть раньше окончания"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/slot-availability
// Query params: date (YYYY-MM-DD), start (HH:MM), end (HH:MM)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("GET /branches/{id}/slot-availability - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	query := r.URL.Query()
	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /branches/{id}/slot-availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	start, err := types.NewTimeStringFromString(query.Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	end, err := types.NewTimeStringFromString(query.Get("end"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.IsSlotAvailable(r.Context(), &models.SlotAvailabilityRequest{
		BranchID:  branchID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/slot-availability - Branch not found: branch_id=%d", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /branches/{id}/slot-availability - Failed to check slot: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
