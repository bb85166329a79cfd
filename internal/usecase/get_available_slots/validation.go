package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BranchID <= 0 {
		return fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше maxDaysAhead от сегодня.
// maxDaysAhead = 0 - без ограничения.
func validateDate(requestDate time.Time, now time.Time, maxDaysAhead int) error {
	if isDateInPast(requestDate, now) {
		return ErrInvalidDate
	}

	if maxDaysAhead == 0 {
		return nil
	}

	maxDate := dateOnly(now).AddDate(0, 0, maxDaysAhead)
	if dateOnly(requestDate).After(maxDate) {
		return fmt.Errorf("%w: slots are shown at most %d days ahead", ErrDateTooFarInFuture, maxDaysAhead)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// dateOnly обнуляет время (календарная дата в локальной зоне сервера)
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
