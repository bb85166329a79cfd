package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// DomainErrorStatus HTTP статус для ошибки бизнес-правил записи.
// ok = false, если ошибка не из таксономии domain.
func DomainErrorStatus(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrBranchClosed),
		errors.Is(err, domain.ErrOutsideOperatingHours):
		return http.StatusBadRequest, true

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, domain.ErrCustomerDoubleBooked),
		errors.Is(err, domain.ErrSlotUnavailable),
		errors.Is(err, domain.ErrNoConsultantAvailable),
		errors.Is(err, domain.ErrCannotCancel),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, true
	}
	return 0, false
}

// DomainErrorMessage сообщение для клиента: у конфликта клиента - с названием филиала,
// у остальных - текст sentinel ошибки без технических подробностей
func DomainErrorMessage(err error) string {
	var conflict *domain.CustomerConflictError
	if errors.As(err, &conflict) {
		return conflict.Error()
	}

	for _, sentinel := range []error{
		domain.ErrInvalidSlot,
		domain.ErrBranchClosed,
		domain.ErrOutsideOperatingHours,
		domain.ErrSlotUnavailable,
		domain.ErrNoConsultantAvailable,
		domain.ErrCannotCancel,
		domain.ErrInvalidStatusTransition,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
