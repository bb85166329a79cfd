package get_available_dates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

// UseCase use case для получения дат, в которые филиал работает
type UseCase struct {
	branchRepo       BranchRepository
	hours            HoursResolver
	timeProvider     TimeProvider
	defaultDaysAhead int
	maxDaysAhead     int
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// Нулевые defaultDaysAhead и maxDaysAhead заменяются значениями по умолчанию (30 и 90).
func NewUseCase(
	branchRepo BranchRepository,
	hours HoursResolver,
	defaultDaysAhead int,
	maxDaysAhead int,
	logger Logger,
) *UseCase {
	if defaultDaysAhead <= 0 {
		defaultDaysAhead = domain.DefaultDaysAhead
	}
	if maxDaysAhead <= 0 {
		maxDaysAhead = domain.MaxDaysAhead
	}
	return &UseCase{
		branchRepo:       branchRepo,
		hours:            hours,
		timeProvider:     &schedule.RealTimeProvider{},
		defaultDaysAhead: defaultDaysAhead,
		maxDaysAhead:     maxDaysAhead,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает даты начиная с сегодняшней (по часам сервера), в которые филиал не закрыт.
// DaysAhead больше максимума урезается до максимума.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableDates: branch=%d, daysAhead=%d", req.BranchID, req.DaysAhead)

	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}
	if req.DaysAhead < 0 {
		return nil, fmt.Errorf("%w: daysAhead must not be negative", ErrInvalidInput)
	}

	days := req.DaysAhead
	if days == 0 {
		days = uc.defaultDaysAhead
	}
	if days > uc.maxDaysAhead {
		uc.logger.Warn("GetAvailableDates: daysAhead=%d capped to %d", days, uc.maxDaysAhead)
		days = uc.maxDaysAhead
	}

	branch, err := uc.branchRepo.GetByID(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, branchRepo.ErrBranchNotFound) {
			uc.logger.Warn("GetAvailableDates: branch id=%d not found", req.BranchID)
			return nil, ErrBranchNotFound
		}
		uc.logger.Error("GetAvailableDates: failed to get branch id=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: failed to get branch: %v", ErrInternal, err)
	}
	if !branch.IsActive {
		return nil, ErrBranchNotFound
	}

	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Часы работы зависят только от дня недели
	closed := make(map[time.Weekday]bool, 7)
	for i := 0; i < 7 && i < days; i++ {
		date := today.AddDate(0, 0, i)
		hours, err := uc.hours.Resolve(ctx, branch.ID, date)
		if err != nil {
			uc.logger.Error("GetAvailableDates: failed to resolve hours of branch=%d: %v", branch.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		closed[date.Weekday()] = hours.IsClosed
	}

	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i)
		if closed[date.Weekday()] {
			continue
		}
		dates = append(dates, date)
	}

	uc.logger.Info("GetAvailableDates: branch=%d is open on %d of %d days", branch.ID, len(dates), days)

	return &Response{BranchID: branch.ID, Dates: dates}, nil
}
