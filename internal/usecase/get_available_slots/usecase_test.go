package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBranches map[int64]*domain.Branch

func (f fakeBranches) GetByID(_ context.Context, id int64) (*domain.Branch, error) {
	b, ok := f[id]
	if !ok {
		return nil, branchRepo.ErrBranchNotFound
	}
	return b, nil
}

type fakeServices struct {
	items map[int64]*domain.Service
	err   error
}

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.items[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeCalculator struct {
	slots    []domain.SlotAvailability
	err      error
	duration int
	calls    int
}

func (f *fakeCalculator) ListSlots(_ context.Context, _ int64, _ time.Time, durationMinutes int) ([]domain.SlotAvailability, error) {
	f.calls++
	f.duration = durationMinutes
	return f.slots, f.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)

func newUseCase(calc *fakeCalculator, services fakeServices) *UseCase {
	branches := fakeBranches{
		1: {ID: 1, Name: "Sandton", IsActive: true},
		2: {ID: 2, Name: "Closed down", IsActive: false},
	}
	return NewUseCase(branches, services, calc, domain.MaxDaysAhead, nopLogger{}).
		WithTimeProvider(fixedTime{now: monday.Add(9 * time.Hour)})
}

func defaultServices() fakeServices {
	return fakeServices{items: map[int64]*domain.Service{
		1: {ID: 1, Name: "Consultation", DurationMinutes: 45, IsActive: true},
		2: {ID: 2, Name: "Archived", DurationMinutes: 30, IsActive: false},
	}}
}

func TestExecute_ReturnsCalculatorSlots(t *testing.T) {
	calc := &fakeCalculator{slots: []domain.SlotAvailability{
		{StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("08:45"), AvailableCount: 2, TotalConsultants: 2, IsAvailable: false},
		{StartTime: types.MustTimeString("10:30"), EndTime: types.MustTimeString("11:15"), AvailableCount: 1, TotalConsultants: 2, IsAvailable: true},
	}}
	uc := newUseCase(calc, defaultServices())

	resp, err := uc.Execute(context.Background(), &Request{BranchID: 1, ServiceID: 1, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, 45, calc.duration)
	assert.Equal(t, 45, resp.DurationMinutes)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("11:15"), resp.Slots[1].EndTime)
	assert.True(t, resp.Slots[1].IsAvailable)
	assert.False(t, resp.Slots[0].IsAvailable)
	assert.Equal(t, 2, resp.Slots[0].TotalConsultants)
}

func TestExecute_NotFound(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{name: "unknown branch", req: &Request{BranchID: 9, ServiceID: 1, Date: monday}, want: ErrBranchNotFound},
		{name: "inactive branch", req: &Request{BranchID: 2, ServiceID: 1, Date: monday}, want: ErrBranchNotFound},
		{name: "unknown service", req: &Request{BranchID: 1, ServiceID: 9, Date: monday}, want: ErrServiceNotFound},
		{name: "inactive service", req: &Request{BranchID: 1, ServiceID: 2, Date: monday}, want: ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := &fakeCalculator{}
			uc := newUseCase(calc, defaultServices())

			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.Zero(t, calc.calls)
		})
	}
}

func TestExecute_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{name: "no branch", req: &Request{ServiceID: 1, Date: monday}, want: ErrInvalidInput},
		{name: "no service", req: &Request{BranchID: 1, Date: monday}, want: ErrInvalidInput},
		{name: "no date", req: &Request{BranchID: 1, ServiceID: 1}, want: ErrInvalidInput},
		{name: "past date", req: &Request{BranchID: 1, ServiceID: 1, Date: monday.AddDate(0, 0, -1)}, want: ErrInvalidDate},
		{name: "too far", req: &Request{BranchID: 1, ServiceID: 1, Date: monday.AddDate(0, 0, domain.MaxDaysAhead+1)}, want: ErrDateTooFarInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&fakeCalculator{}, defaultServices())

			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_LastAllowedDay(t *testing.T) {
	uc := newUseCase(&fakeCalculator{}, defaultServices())

	_, err := uc.Execute(context.Background(), &Request{BranchID: 1, ServiceID: 1, Date: monday.AddDate(0, 0, domain.MaxDaysAhead)})

	assert.NoError(t, err)
}

func TestExecute_StorageErrors(t *testing.T) {
	t.Run("service repository", func(t *testing.T) {
		services := defaultServices()
		services.err = errors.New("connection refused")
		uc := newUseCase(&fakeCalculator{}, services)

		_, err := uc.Execute(context.Background(), &Request{BranchID: 1, ServiceID: 1, Date: monday})

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("calculator", func(t *testing.T) {
		uc := newUseCase(&fakeCalculator{err: errors.New("timeout")}, defaultServices())

		_, err := uc.Execute(context.Background(), &Request{BranchID: 1, ServiceID: 1, Date: monday})

		assert.ErrorIs(t, err, ErrInternal)
	})
}
