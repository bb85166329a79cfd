package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	customerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/customer"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeBranchRepo struct {
	hours map[time.Weekday]*domain.OperatingHours
	err   error
}

func (f *fakeBranchRepo) GetOperatingHours(_ context.Context, _ int64, weekday time.Weekday) (*domain.OperatingHours, error) {
	if f.err != nil {
		return nil, f.err
	}
	h, ok := f.hours[weekday]
	if !ok {
		return nil, branchRepo.ErrOperatingHoursNotFound
	}
	return h, nil
}

type fakeConsultantRepo struct {
	consultants []*domain.Consultant
}

func (f *fakeConsultantRepo) ListByBranch(_ context.Context, branchID int64, activeOnly bool) ([]*domain.Consultant, error) {
	result := make([]*domain.Consultant, 0)
	for _, c := range f.consultants {
		if c.BranchID != branchID || (activeOnly && !c.IsActive) {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	branchNames  map[int64]string
}

func (f *fakeAppointmentRepo) ListActiveByConsultants(_ context.Context, ids []int64, date time.Time) ([]*domain.Appointment, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.ConsultantID == nil || !wanted[*a.ConsultantID] || !a.IsActive() || !sameDay(a.AppointmentDate, date) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) ListActiveByCustomer(_ context.Context, customerID int64, date time.Time) ([]*domain.CustomerAppointment, error) {
	result := make([]*domain.CustomerAppointment, 0)
	for _, a := range f.appointments {
		if a.CustomerID != customerID || !a.IsActive() || !sameDay(a.AppointmentDate, date) {
			continue
		}
		result = append(result, &domain.CustomerAppointment{
			AppointmentID: a.ID,
			BranchID:      a.BranchID,
			BranchName:    f.branchNames[a.BranchID],
			StartTime:     a.StartTime,
			EndTime:       a.EndTime,
		})
	}
	return result, nil
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (f *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := f.customers[domain.NormalizeEmail(email)]
	if !ok {
		return nil, customerRepo.ErrCustomerNotFound
	}
	return c, nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// monday 2025-06-02
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)

func consultants(ids ...int64) []*domain.Consultant {
	result := make([]*domain.Consultant, len(ids))
	for i, id := range ids {
		result[i] = &domain.Consultant{ID: id, BranchID: 1, FirstName: "C", IsActive: true}
	}
	return result
}

func booked(id, consultantID int64, start, end string) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		BranchID:        1,
		CustomerID:      100 + id,
		ConsultantID:    ptr.Ptr(consultantID),
		AppointmentDate: monday,
		StartTime:       types.MustTimeString(start),
		EndTime:         types.MustTimeString(end),
		Status:          domain.StatusConfirmed,
	}
}
