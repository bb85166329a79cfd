package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Calculator считает свободные места по консультантам филиала
type Calculator struct {
	hours           *HoursResolver
	consultantRepo  ConsultantRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	displayStep     int
	minLead         time.Duration
}

// NewCalculator создает калькулятор доступности.
// displayStepMinutes - шаг отображения слотов, minLeadMinutes - минимальный запас до начала слота.
func NewCalculator(
	hours *HoursResolver,
	consultantRepo ConsultantRepository,
	appointmentRepo AppointmentRepository,
	timeProvider TimeProvider,
	displayStepMinutes int,
	minLeadMinutes int,
) *Calculator {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if displayStepMinutes <= 0 {
		displayStepMinutes = domain.DisplayStepMinutes
	}
	if minLeadMinutes < 0 {
		minLeadMinutes = domain.MinLeadMinutes
	}
	return &Calculator{
		hours:           hours,
		consultantRepo:  consultantRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    timeProvider,
		displayStep:     displayStepMinutes,
		minLead:         time.Duration(minLeadMinutes) * time.Minute,
	}
}

// ListSlots возвращает слоты дня для услуги длительностью durationMinutes.
// Слоты идут от открытия с шагом displayStep, пока слот целиком помещается до закрытия.
// В закрытый день возвращается пустой список.
func (c *Calculator) ListSlots(ctx context.Context, branchID int64, date time.Time, durationMinutes int) ([]domain.SlotAvailability, error) {
	hours, err := c.hours.Resolve(ctx, branchID, date)
	if err != nil {
		return nil, err
	}
	if hours.IsClosed {
		return []domain.SlotAvailability{}, nil
	}

	occ, err := loadOccupancy(ctx, c.consultantRepo, c.appointmentRepo, branchID, date)
	if err != nil {
		return nil, err
	}

	// Время сервера: слот доступен, только если начинается не раньше now + minLead
	now := c.timeProvider.Now()
	earliest := now.Add(c.minLead)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	slots := make([]domain.SlotAvailability, 0)
	for start := hours.Open; ; {
		end, err := start.AddMinutes(durationMinutes)
		if err != nil || end.IsAfter(hours.Close) {
			break
		}

		available := occ.countFree(start, end)
		slots = append(slots, domain.SlotAvailability{
			StartTime:        start,
			EndTime:          end,
			AvailableCount:   available,
			TotalConsultants: len(occ.consultants),
			IsAvailable:      available > 0 && !start.On(day).Before(earliest),
		})

		start, err = start.AddMinutes(c.displayStep)
		if err != nil {
			break
		}
	}

	return slots, nil
}

// IsSlotAvailable проверяет, что хотя бы один активный консультант свободен на [start, end)
func (c *Calculator) IsSlotAvailable(ctx context.Context, branchID int64, date time.Time, start, end types.TimeString) (bool, error) {
	if !start.IsBefore(end) {
		return false, fmt.Errorf("%w: start %s is not before end %s", domain.ErrInvalidSlot, start, end)
	}

	occ, err := loadOccupancy(ctx, c.consultantRepo, c.appointmentRepo, branchID, date)
	if err != nil {
		return false, err
	}

	return occ.countFree(start, end) > 0, nil
}
