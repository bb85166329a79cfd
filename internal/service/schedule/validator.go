package schedule

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ValidateIncrement проверяет, что запись начинается на сетке 15 минут без секунд
func ValidateIncrement(start types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSlot, err)
	}
	if start.Seconds() != 0 || start.Minutes()%domain.SlotIncrementMinutes != 0 {
		return domain.ErrInvalidSlot
	}
	return nil
}

// ValidateContainment проверяет, что [start, end) целиком внутри часов работы
func ValidateContainment(hours domain.DayHours, start, end types.TimeString) error {
	if hours.IsClosed {
		return domain.ErrBranchClosed
	}
	if !hours.Contains(start, end) {
		return fmt.Errorf("%w: branch works %s-%s, requested %s-%s",
			domain.ErrOutsideOperatingHours, hours.Open, hours.Close, start, end)
	}
	return nil
}
