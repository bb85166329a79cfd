package create_appointment

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BranchID <= 0 {
		return fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := validateCustomer(req.Customer); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

func validateCustomer(c CustomerInfo) error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("%w: customer first and last name are required", ErrInvalidInput)
	}

	if len(c.FirstName) > domain.MaxNameLength || len(c.LastName) > domain.MaxNameLength {
		return fmt.Errorf("%w: customer name must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(c.Email))
	if err != nil || addr.Address != strings.TrimSpace(c.Email) {
		return fmt.Errorf("%w: invalid customer email", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше maxDaysAhead от сегодня.
// maxDaysAhead = 0 - без ограничения.
func validateDate(date, now time.Time, maxDaysAhead int) error {
	today := dateOnly(now)
	day := dateOnly(date)

	if day.Before(today) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, date.Format(domain.DateFormat))
	}

	if maxDaysAhead > 0 && day.After(today.AddDate(0, 0, maxDaysAhead)) {
		return fmt.Errorf("%w: appointments can be made at most %d days ahead", ErrDateTooFarInFuture, maxDaysAhead)
	}

	return nil
}

// dateOnly календарная дата в локальной зоне сервера
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
