package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableDates "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_dates"
)

const (
	msgInvalidBranchID  = "некорректный ID филиала"
	msgInvalidDaysAhead = "daysAhead должен быть неотрицательным числом"
	msgBranchNotFound   = "филиал не найден"
	msgInvalidInput     = "некорректные параметры запроса"
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

// Handle GET /api/v1/branches/{branchId}/available-dates
// Query params: daysAhead (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	branchID, err := handlers.PathInt64(r, "branchId")
	if err != nil {
		h.logger.Warn("GET /branches/{id}/available-dates - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	var daysAhead int
	if s := r.URL.Query().Get("daysAhead"); s != "" {
		daysAhead, err = strconv.Atoi(s)
		if err != nil || daysAhead < 0 {
			handlers.RespondBadRequest(w, msgInvalidDaysAhead)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableDates.Request{
		BranchID:  branchID,
		DaysAhead: daysAhead,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDates.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/available-dates - Branch not found: branch_id=%d", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, getAvailableDates.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /branches/{id}/available-dates - Failed to get dates: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
