package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BranchRepository источник часов работы филиала
type BranchRepository interface {
	GetOperatingHours(ctx context.Context, branchID int64, weekday time.Weekday) (*domain.OperatingHours, error)
}

// ConsultantRepository источник консультантов филиала
type ConsultantRepository interface {
	ListByBranch(ctx context.Context, branchID int64, activeOnly bool) ([]*domain.Consultant, error)
}

// AppointmentRepository источник занятости консультантов и клиентов
type AppointmentRepository interface {
	ListActiveByConsultants(ctx context.Context, consultantIDs []int64, date time.Time) ([]*domain.Appointment, error)
	ListActiveByCustomer(ctx context.Context, customerID int64, date time.Time) ([]*domain.CustomerAppointment, error)
}

// CustomerRepository поиск клиента по email
type CustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
