package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса (completed / no_show)
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// SlotAvailabilityRequest запрос на проверку интервала
type SlotAvailabilityRequest struct {
	BranchID  int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response модели

// CancelResponse результат отмены
type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// SlotAvailabilityResponse результат проверки интервала
type SlotAvailabilityResponse struct {
	BranchID    int64  `json:"branchId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// BranchRef краткие данные филиала
type BranchRef struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

// ServiceRef краткие данные услуги
type ServiceRef struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
}

// CustomerRef краткие данные клиента
type CustomerRef struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone,omitempty"`
}

// ConsultantRef краткие данные консультанта
type ConsultantRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AppointmentResponse запись вместе со связанными данными
type AppointmentResponse struct {
	ID               int64   `json:"id"`
	ConfirmationCode string  `json:"confirmationCode"`
	AppointmentDate  string  `json:"appointmentDate"` // "2025-06-02"
	StartTime        string  `json:"startTime"`       // "10:00"
	EndTime          string  `json:"endTime"`         // "10:30"
	Status           string  `json:"status"`
	Notes            *string `json:"notes,omitempty"`

	Branch     *BranchRef     `json:"branch,omitempty"`
	Service    *ServiceRef    `json:"service,omitempty"`
	Customer   *CustomerRef   `json:"customer,omitempty"`
	Consultant *ConsultantRef `json:"consultant,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainDetails конвертирует domain модель в DTO
func FromDomainDetails(d *domain.AppointmentDetails) *AppointmentResponse {
	if d == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 d.ID,
		ConfirmationCode:   d.ConfirmationCode,
		AppointmentDate:    d.AppointmentDate.Format(domain.DateFormat),
		StartTime:          d.StartTime.String(),
		EndTime:            d.EndTime.String(),
		Status:             string(d.Status),
		Notes:              d.Notes,
		CancellationReason: d.CancellationReason,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}

	if d.CancelledAt != nil {
		cancelledAt := d.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	if d.Branch != nil {
		resp.Branch = &BranchRef{ID: d.Branch.ID, Name: d.Branch.Name, Address: d.Branch.Address}
	}
	if d.Service != nil {
		resp.Service = &ServiceRef{ID: d.Service.ID, Name: d.Service.Name, DurationMinutes: d.Service.DurationMinutes}
	}
	if d.Customer != nil {
		resp.Customer = &CustomerRef{
			ID:        d.Customer.ID,
			Email:     d.Customer.Email,
			FirstName: d.Customer.FirstName,
			LastName:  d.Customer.LastName,
			Phone:     d.Customer.Phone,
		}
	}
	if d.Consultant != nil {
		resp.Consultant = &ConsultantRef{ID: d.Consultant.ID, Name: d.Consultant.FullName()}
	}

	return resp
}

// ToDomainFinalStatus конвертирует строку в статус завершения записи.
// Допустимы только completed и no_show.
func ToDomainFinalStatus(s string) (domain.AppointmentStatus, bool) {
	switch status := domain.AppointmentStatus(s); status {
	case domain.StatusCompleted, domain.StatusNoShow:
		return status, true
	default:
		return "", false
	}
}
