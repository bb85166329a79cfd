package domain

import (
	"errors"
	"fmt"
)

// Ошибки бизнес-правил записи. Слои выше проверяют их через errors.Is.
var (
	ErrInvalidSlot             = errors.New("start time must be in 15-minute increments")
	ErrBranchClosed            = errors.New("branch is closed on the selected date")
	ErrOutsideOperatingHours   = errors.New("appointment is outside branch operating hours")
	ErrCustomerDoubleBooked    = errors.New("customer already has an overlapping appointment")
	ErrSlotUnavailable         = errors.New("selected time slot is unavailable: no consultants available")
	ErrNoConsultantAvailable   = errors.New("no consultants available for the selected time slot")
	ErrNotFound                = errors.New("not found")
	ErrCannotCancel            = errors.New("appointment cannot be cancelled")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrCodeGenerationExhausted = errors.New("failed to generate unique confirmation code")
)

// CustomerConflictError пересечение с уже существующей записью клиента.
// Оборачивает ErrCustomerDoubleBooked.
type CustomerConflictError struct {
	AppointmentID int64
	BranchName    string
}

func (e *CustomerConflictError) Error() string {
	return fmt.Sprintf("you already have an appointment at %s during this time", e.BranchName)
}

func (e *CustomerConflictError) Unwrap() error {
	return ErrCustomerDoubleBooked
}
