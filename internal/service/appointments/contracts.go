package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCode(ctx context.Context, code string) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason *string) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// BranchRepository интерфейс репозитория филиалов
type BranchRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Branch, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

// ConsultantRepository интерфейс репозитория консультантов
type ConsultantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Consultant, error)
}

// AvailabilityChecker проверка свободных консультантов на интервал
type AvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, branchID int64, date time.Time, start, end types.TimeString) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
