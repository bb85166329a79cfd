package get_available_dates

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableDates "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_dates"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	BranchID int64    `json:"branchId"`
	Dates    []string `json:"dates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableDates.Response) *AvailableDatesResponse {
	dates := make([]string, len(resp.Dates))
	for i, d := range resp.Dates {
		dates[i] = d.Format(domain.DateFormat)
	}
	return &AvailableDatesResponse{
		BranchID: resp.BranchID,
		Dates:    dates,
	}
}
