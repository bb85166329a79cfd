package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// occupancy занятость активных консультантов филиала на одну дату
type occupancy struct {
	consultants []*domain.Consultant // по возрастанию ID
	busy        map[int64][]*domain.Appointment
}

func loadOccupancy(
	ctx context.Context,
	consultantRepo ConsultantRepository,
	appointmentRepo AppointmentRepository,
	branchID int64,
	date time.Time,
) (*occupancy, error) {
	consultants, err := consultantRepo.ListByBranch(ctx, branchID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: list consultants of branch=%d: %v", ErrInternal, branchID, err)
	}

	ids := make([]int64, len(consultants))
	for i, c := range consultants {
		ids[i] = c.ID
	}

	appointments, err := appointmentRepo.ListActiveByConsultants(ctx, ids, date)
	if err != nil {
		return nil, fmt.Errorf("%w: list appointments of branch=%d on %s: %v",
			ErrInternal, branchID, date.Format(domain.DateFormat), err)
	}

	busy := make(map[int64][]*domain.Appointment, len(consultants))
	for _, a := range appointments {
		if a.ConsultantID == nil || !a.IsActive() {
			continue
		}
		busy[*a.ConsultantID] = append(busy[*a.ConsultantID], a)
	}

	return &occupancy{consultants: consultants, busy: busy}, nil
}

// isFree проверяет, что у консультанта нет записи, пересекающейся с [start, end)
func (o *occupancy) isFree(consultantID int64, start, end types.TimeString) bool {
	for _, a := range o.busy[consultantID] {
		if a.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// firstFree возвращает свободного консультанта с наименьшим ID
func (o *occupancy) firstFree(start, end types.TimeString) *domain.Consultant {
	for _, c := range o.consultants {
		if o.isFree(c.ID, start, end) {
			return c
		}
	}
	return nil
}

// countFree возвращает количество свободных консультантов
func (o *occupancy) countFree(start, end types.TimeString) int {
	count := 0
	for _, c := range o.consultants {
		if o.isFree(c.ID, start, end) {
			count++
		}
	}
	return count
}
