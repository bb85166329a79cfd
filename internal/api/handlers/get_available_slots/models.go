package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	BranchID        int64           `json:"branchId"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	AvailableCount   int    `json:"availableCount"`
	TotalConsultants int    `json:"totalConsultants"`
	IsAvailable      bool   `json:"isAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:        slot.StartTime.String(),
			EndTime:          slot.EndTime.String(),
			AvailableCount:   slot.AvailableCount,
			TotalConsultants: slot.TotalConsultants,
			IsAvailable:      slot.IsAvailable,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BranchID:        resp.BranchID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
