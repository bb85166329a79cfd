package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	branchRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/branch"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// HoursResolver определяет часы работы филиала на конкретную дату
type HoursResolver struct {
	branchRepo   BranchRepository
	defaultOpen  types.TimeString
	defaultClose types.TimeString
}

// NewHoursResolver создает резолвер. Часы по умолчанию применяются к дням недели без записи.
func NewHoursResolver(branchRepo BranchRepository, defaultOpen, defaultClose types.TimeString) *HoursResolver {
	if defaultOpen.IsZero() {
		defaultOpen = domain.DefaultOpenTime
	}
	if defaultClose.IsZero() {
		defaultClose = domain.DefaultCloseTime
	}
	return &HoursResolver{
		branchRepo:   branchRepo,
		defaultOpen:  defaultOpen,
		defaultClose: defaultClose,
	}
}

// Resolve возвращает окно работы филиала в день недели даты.
// Нет записи - часы по умолчанию, is_closed - день закрыт независимо от времени.
func (r *HoursResolver) Resolve(ctx context.Context, branchID int64, date time.Time) (domain.DayHours, error) {
	hours, err := r.branchRepo.GetOperatingHours(ctx, branchID, date.Weekday())
	if err != nil {
		if errors.Is(err, branchRepo.ErrOperatingHoursNotFound) {
			return domain.DayHours{Open: r.defaultOpen, Close: r.defaultClose}, nil
		}
		return domain.DayHours{}, fmt.Errorf("%w: Resolve - branch=%d weekday=%s: %v", ErrInternal, branchID, date.Weekday(), err)
	}

	if hours.IsClosed {
		return domain.DayHours{IsClosed: true}, nil
	}

	return domain.DayHours{Open: hours.OpenTime, Close: hours.CloseTime}, nil
}
