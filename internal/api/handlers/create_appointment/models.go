package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BranchID        int64        `json:"branchId"`
	ServiceID       int64        `json:"serviceId"`
	AppointmentDate string       `json:"appointmentDate"` // "2025-06-02"
	StartTime       string       `json:"startTime"`       // "10:00"
	Customer        CustomerInfo `json:"customer"`
	Notes           *string      `json:"notes,omitempty"`
}

// CustomerInfo данные клиента
type CustomerInfo struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Дата разбирается в локальной зоне сервера.
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.AppointmentDate, time.Local)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createAppointment.Request{
		BranchID:  r.BranchID,
		ServiceID: r.ServiceID,
		Date:      date,
		StartTime: startTime,
		Customer: createAppointment.CustomerInfo{
			FirstName: r.Customer.FirstName,
			LastName:  r.Customer.LastName,
			Email:     r.Customer.Email,
			Phone:     r.Customer.Phone,
		},
		Notes: r.Notes,
	}, nil
}
