package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
)

// UseCase use case для получения слотов филиала на дату
type UseCase struct {
	branchRepo   BranchRepository
	serviceRepo  ServiceRepository
	calculator   SlotCalculator
	timeProvider TimeProvider
	maxDaysAhead int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	branchRepo BranchRepository,
	serviceRepo ServiceRepository,
	calculator SlotCalculator,
	maxDaysAhead int,
	logger Logger,
) *UseCase {
	return &UseCase{
		branchRepo:   branchRepo,
		serviceRepo:  serviceRepo,
		calculator:   calculator,
		timeProvider: &RealTimeProvider{},
		maxDaysAhead: maxDaysAhead,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: branch=%d, service=%d, date=%s",
		req.BranchID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.Date, uc.timeProvider.Now(), uc.maxDaysAhead); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 2. Филиал и услуга загружаются параллельно
	var (
		branch  *domain.Branch
		service *domain.Service
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := uc.branchRepo.GetByID(gctx, req.BranchID)
		if err != nil {
			if errors.Is(err, branchRepo.ErrBranchNotFound) {
				return ErrBranchNotFound
			}
			return fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
		}
		if !b.IsActive {
			return ErrBranchNotFound
		}
		branch = b
		return nil
	})
	g.Go(func() error {
		s, err := uc.serviceRepo.GetByID(gctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !s.IsActive {
			return ErrServiceNotFound
		}
		service = s
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: %v (branch=%d, service=%d)", err, req.BranchID, req.ServiceID)
		} else {
			uc.logger.Error("GetAvailableSlots: %v", err)
		}
		return nil, err
	}

	// 3. Слоты с занятостью консультантов
	available, err := uc.calculator.ListSlots(ctx, branch.ID, req.Date, service.DurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	slots := make([]Slot, len(available))
	for i, s := range available {
		slots[i] = Slot{
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			AvailableCount:   s.AvailableCount,
			TotalConsultants: s.TotalConsultants,
			IsAvailable:      s.IsAvailable,
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for branch=%d, service=%d, date=%s",
		len(slots), branch.ID, service.ID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		BranchID:        branch.ID,
		ServiceID:       service.ID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
