package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("service %w", domain.ErrNotFound)

	// ErrBranchNotFound возвращается, когда филиал не найден или неактивен
	ErrBranchNotFound = fmt.Errorf("branch %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInvalidDate возвращается, когда дата или время записи уже прошли
	ErrInvalidDate = errors.New("create_appointment: appointment date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта записи
	ErrDateTooFarInFuture = errors.New("create_appointment: appointment date is too far in the future")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
