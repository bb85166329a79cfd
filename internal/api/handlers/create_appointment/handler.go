package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgServiceNotFound    = "услуга не найдена"
	msgBranchNotFound     = "филиал не найден"
	msgInvalidInput       = "некорректные данные записи: проверьте филиал, услугу, время, имя и email клиента"
	msgPastDate           = "нельзя записаться на прошедшие дату или время"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
)

var (
	errInvalidDate = errors.New("invalid appointment date")
	errInvalidTime = errors.New("invalid start time")
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Date in the past: date=%s, time=%s", req.AppointmentDate, req.StartTime)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in the future: date=%s", req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrBranchNotFound):
			h.logger.Warn("POST /appointments - Branch not found: branch_id=%d", req.BranchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, domain.ErrCodeGenerationExhausted):
			h.logger.Error("POST /appointments - Confirmation code generation exhausted: branch_id=%d", req.BranchID)
			handlers.RespondInternalError(w)

		default:
			if status, ok := handlers.DomainErrorStatus(err); ok {
				h.logger.Warn("POST /appointments - Rejected: branch_id=%d, date=%s, time=%s: %v",
					req.BranchID, req.AppointmentDate, req.StartTime, err)
				handlers.RespondError(w, status, handlers.DomainErrorMessage(err))
				return
			}
			h.logger.Error("POST /appointments - Failed to create appointment: branch_id=%d, error=%v", req.BranchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, code=%s",
		result.ID, result.ConfirmationCode)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
