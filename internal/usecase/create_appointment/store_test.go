package create_appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	customerRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/customer"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// memStore хранилище в памяти с поведением PostgreSQL, важным для записи:
// уникальный индекс (consultant_id, appointment_date, start_time) по неотмененным записям,
// advisory-блокировки до конца транзакции и откат вставленных строк.
type memStore struct {
	mu           sync.Mutex
	branches     map[int64]*domain.Branch
	services     map[int64]*domain.Service
	hours        map[int64]map[time.Weekday]*domain.OperatingHours
	consultants  []*domain.Consultant
	customers    map[string]*domain.Customer
	appointments map[int64]*domain.Appointment
	nextID       int64
	keyLocks     map[int64]*sync.Mutex

	// skipLocks отключает advisory-блокировки, чтобы проверить уникальный индекс
	skipLocks bool
	// beforeCreate вызывается перед вставкой записи
	beforeCreate func()
	createErr    error
	codeTaken    func(code string) bool
}

type memTxKey struct{}

type memTx struct {
	locked       []*sync.Mutex
	appointments []int64
	customers    []string
}

func newMemStore() *memStore {
	return &memStore{
		branches:     make(map[int64]*domain.Branch),
		services:     make(map[int64]*domain.Service),
		hours:        make(map[int64]map[time.Weekday]*domain.OperatingHours),
		customers:    make(map[string]*domain.Customer),
		appointments: make(map[int64]*domain.Appointment),
		keyLocks:     make(map[int64]*sync.Mutex),
	}
}

func (s *memStore) addBranch(id int64, name string, openAt, closeAt string) {
	s.branches[id] = &domain.Branch{ID: id, Name: name, IsActive: true}
	week := make(map[time.Weekday]*domain.OperatingHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		h := &domain.OperatingHours{BranchID: id, Weekday: d, IsClosed: true}
		if d != time.Saturday && d != time.Sunday {
			h.OpenTime = types.TimeString(openAt)
			h.CloseTime = types.TimeString(closeAt)
			h.IsClosed = false
		}
		week[d] = h
	}
	s.hours[id] = week
}

func (s *memStore) addConsultants(branchID int64, ids ...int64) {
	for _, id := range ids {
		s.consultants = append(s.consultants, &domain.Consultant{
			ID:        id,
			BranchID:  branchID,
			FirstName: fmt.Sprintf("Consultant%d", id),
			LastName:  "Test",
			IsActive:  true,
		})
	}
}

// Do эмулирует транзакцию: при ошибке fn вставленные строки удаляются, блокировки снимаются в конце
func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memTx{}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))
	if err != nil {
		s.rollback(tx)
	}
	for i := len(tx.locked) - 1; i >= 0; i-- {
		tx.locked[i].Unlock()
	}
	return err
}

func (s *memStore) rollback(tx *memTx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range tx.appointments {
		delete(s.appointments, id)
	}
	for _, email := range tx.customers {
		delete(s.customers, email)
	}
}

func txFrom(ctx context.Context) *memTx {
	tx, _ := ctx.Value(memTxKey{}).(*memTx)
	return tx
}

func (s *memStore) LockSchedule(ctx context.Context, keys ...int64) error {
	tx := txFrom(ctx)
	if tx == nil {
		return appointmentRepo.ErrNoTransaction
	}
	if s.skipLocks {
		return nil
	}

	sorted := append([]int64(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		s.mu.Lock()
		m, ok := s.keyLocks[key]
		if !ok {
			m = &sync.Mutex{}
			s.keyLocks[key] = m
		}
		s.mu.Unlock()

		m.Lock()
		tx.locked = append(tx.locked, m)
	}
	return nil
}

func (s *memStore) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if hook := s.beforeCreate; hook != nil {
		s.beforeCreate = nil
		hook()
	}
	if s.createErr != nil {
		return nil, s.createErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.appointments {
		if existing.ConfirmationCode == a.ConfirmationCode {
			return nil, fmt.Errorf("%w: Create - code %s", appointmentRepo.ErrDuplicateCode, a.ConfirmationCode)
		}
		if existing.Status == domain.StatusCancelled || existing.ConsultantID == nil || a.ConsultantID == nil {
			continue
		}
		if *existing.ConsultantID == *a.ConsultantID &&
			sameDay(existing.AppointmentDate, a.AppointmentDate) &&
			existing.StartTime.Equal(a.StartTime) {
			return nil, fmt.Errorf("%w: Create - consultant %d at %s", appointmentRepo.ErrSlotTaken, *a.ConsultantID, a.StartTime)
		}
	}

	created := s.insertLocked(a)
	if tx := txFrom(ctx); tx != nil {
		tx.appointments = append(tx.appointments, created.ID)
	}
	cp := *created
	return &cp, nil
}

// insert добавляет зафиксированную запись в обход проверок
func (s *memStore) insert(a *domain.Appointment) *domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(a)
}

func (s *memStore) insertLocked(a *domain.Appointment) *domain.Appointment {
	s.nextID++
	cp := *a
	cp.ID = s.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.appointments[cp.ID] = &cp
	return &cp
}

func (s *memStore) ExistsByCode(_ context.Context, code string) (bool, error) {
	if s.codeTaken != nil && s.codeTaken(code) {
		return true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.ConfirmationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ListActiveByConsultants(_ context.Context, ids []int64, date time.Time) ([]*domain.Appointment, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.ConsultantID == nil || !wanted[*a.ConsultantID] || !a.IsActive() || !sameDay(a.AppointmentDate, date) {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}
	return result, nil
}

func (s *memStore) ListActiveByCustomer(_ context.Context, customerID int64, date time.Time) ([]*domain.CustomerAppointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.CustomerAppointment, 0)
	for _, a := range s.appointments {
		if a.CustomerID != customerID || !a.IsActive() || !sameDay(a.AppointmentDate, date) {
			continue
		}
		result = append(result, &domain.CustomerAppointment{
			AppointmentID: a.ID,
			BranchID:      a.BranchID,
			BranchName:    s.branches[a.BranchID].Name,
			StartTime:     a.StartTime,
			EndTime:       a.EndTime,
		})
	}
	return result, nil
}

func (s *memStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.appointments {
		if a.IsActive() {
			n++
		}
	}
	return n
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[domain.NormalizeEmail(email)]
	if !ok {
		return nil, customerRepo.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) FindOrCreate(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	email := domain.NormalizeEmail(customer.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.customers[email]; ok {
		cp := *c
		return &cp, nil
	}

	s.nextID++
	created := *customer
	created.ID = 1000 + s.nextID
	created.Email = email
	s.customers[email] = &created
	if tx := txFrom(ctx); tx != nil {
		tx.customers = append(tx.customers, email)
	}
	cp := created
	return &cp, nil
}

func (s *memStore) customerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

func (s *memStore) GetOperatingHours(_ context.Context, branchID int64, weekday time.Weekday) (*domain.OperatingHours, error) {
	h, ok := s.hours[branchID][weekday]
	if !ok {
		return nil, branchRepo.ErrOperatingHoursNotFound
	}
	return h, nil
}

func (s *memStore) ListByBranch(_ context.Context, branchID int64, activeOnly bool) ([]*domain.Consultant, error) {
	result := make([]*domain.Consultant, 0)
	for _, c := range s.consultants {
		if c.BranchID != branchID || (activeOnly && !c.IsActive) {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type memBranches struct{ s *memStore }

func (b memBranches) GetByID(_ context.Context, id int64) (*domain.Branch, error) {
	branch, ok := b.s.branches[id]
	if !ok {
		return nil, branchRepo.ErrBranchNotFound
	}
	return branch, nil
}

type memServices struct{ s *memStore }

func (m memServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := m.s.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return service, nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	created    int
	conflicts  int
	rejections map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{rejections: make(map[string]int)}
}

func (m *fakeMetrics) AppointmentCreated(int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *fakeMetrics) BookingRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[reason]++
}

func (m *fakeMetrics) BookingConflict(int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
