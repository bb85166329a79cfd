package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// IsValid returns true if the status is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Appointment represents a booked service slot at a branch
type Appointment struct {
	ID               int64
	ConfirmationCode string
	CustomerID       int64
	BranchID         int64
	ServiceID        int64
	ConsultantID     *int64 // назначается при создании и больше не меняется

	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString // start + длительность услуги, фиксируется при создании
	Status          AppointmentStatus
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCompleted returns true if the appointment is completed or was a no-show
func (a *Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted || a.Status == StatusNoShow
}

// Overlaps returns true if the appointment intersects the half-open interval [start, end)
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	return Overlaps(a.StartTime, a.EndTime, start, end)
}

// AppointmentDetails appointment hydrated with its related records
type AppointmentDetails struct {
	Appointment
	Branch     *Branch
	Service    *Service
	Customer   *Customer
	Consultant *Consultant
}

// CustomerAppointment non-cancelled appointment of a customer with the branch name,
// used by the customer conflict check
type CustomerAppointment struct {
	AppointmentID int64
	BranchID      int64
	BranchName    string
	StartTime     types.TimeString
	EndTime       types.TimeString
}
