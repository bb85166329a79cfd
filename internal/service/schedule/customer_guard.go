package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	customerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/customer"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CustomerGuard не дает клиенту записаться на пересекающееся время, в том числе в другом филиале
type CustomerGuard struct {
	customerRepo    CustomerRepository
	appointmentRepo AppointmentRepository
}

// NewCustomerGuard создает проверку пересечений записей клиента
func NewCustomerGuard(customerRepo CustomerRepository, appointmentRepo AppointmentRepository) *CustomerGuard {
	return &CustomerGuard{
		customerRepo:    customerRepo,
		appointmentRepo: appointmentRepo,
	}
}

// Check возвращает *domain.CustomerConflictError (errors.Is -> domain.ErrCustomerDoubleBooked),
// если у клиента с таким email уже есть неотмененная запись, пересекающаяся с [start, end).
// Неизвестный email проверку проходит.
func (g *CustomerGuard) Check(ctx context.Context, email string, date time.Time, start, end types.TimeString) error {
	customer, err := g.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return nil
		}
		return fmt.Errorf("%w: Check - find customer: %v", ErrInternal, err)
	}

	appointments, err := g.appointmentRepo.ListActiveByCustomer(ctx, customer.ID, date)
	if err != nil {
		return fmt.Errorf("%w: Check - list appointments of customer=%d: %v", ErrInternal, customer.ID, err)
	}

	for _, a := range appointments {
		if domain.Overlaps(a.StartTime, a.EndTime, start, end) {
			return &domain.CustomerConflictError{
				AppointmentID: a.AppointmentID,
				BranchName:    a.BranchName,
			}
		}
	}

	return nil
}
