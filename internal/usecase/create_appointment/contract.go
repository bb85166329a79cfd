package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// BranchRepository интерфейс репозитория филиалов
type BranchRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Branch, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	FindOrCreate(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	LockSchedule(ctx context.Context, keys ...int64) error
}

// HoursResolver определяет часы работы филиала на дату
type HoursResolver interface {
	Resolve(ctx context.Context, branchID int64, date time.Time) (domain.DayHours, error)
}

// CustomerGuard проверка пересечений записей клиента
type CustomerGuard interface {
	Check(ctx context.Context, email string, date time.Time, start, end types.TimeString) error
}

// AvailabilityChecker проверка наличия свободных консультантов
type AvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, branchID int64, date time.Time, start, end types.TimeString) (bool, error)
}

// ConsultantAssigner выбор консультанта
type ConsultantAssigner interface {
	Assign(ctx context.Context, branchID int64, date time.Time, start, end types.TimeString) (*domain.Consultant, error)
}

// CodeGenerator генератор кодов подтверждения
type CodeGenerator interface {
	Generate(ctx context.Context, date time.Time) (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder бизнес-метрики записи
type MetricsRecorder interface {
	AppointmentCreated(branchID int64)
	BookingRejected(reason string)
	BookingConflict(branchID int64)
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
