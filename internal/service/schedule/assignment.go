package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Assigner выбирает консультанта для записи.
// Консультанты перебираются по возрастанию ID, берется первый свободный.
type Assigner struct {
	consultantRepo  ConsultantRepository
	appointmentRepo AppointmentRepository
}

// NewAssigner создает движок назначения консультантов
func NewAssigner(consultantRepo ConsultantRepository, appointmentRepo AppointmentRepository) *Assigner {
	return &Assigner{
		consultantRepo:  consultantRepo,
		appointmentRepo: appointmentRepo,
	}
}

// Assign возвращает первого свободного на [start, end) консультанта или domain.ErrNoConsultantAvailable
func (a *Assigner) Assign(ctx context.Context, branchID int64, date time.Time, start, end types.TimeString) (*domain.Consultant, error) {
	occ, err := loadOccupancy(ctx, a.consultantRepo, a.appointmentRepo, branchID, date)
	if err != nil {
		return nil, err
	}

	consultant := occ.firstFree(start, end)
	if consultant == nil {
		return nil, domain.ErrNoConsultantAvailable
	}

	return consultant, nil
}
