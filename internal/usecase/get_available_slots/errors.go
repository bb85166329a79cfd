package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrBranchNotFound возвращается, когда филиал не найден или неактивен
	ErrBranchNotFound = fmt.Errorf("branch %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("service %w", domain.ErrNotFound)

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("date must not be in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше maxDaysAhead
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
