package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые сервис обрабатывает отдельно
const (
	CodeUniqueViolation      pq.ErrorCode = "23505"
	CodeSerializationFailure pq.ErrorCode = "40001"
	CodeDeadlockDetected     pq.ErrorCode = "40P01"
)

// IsUniqueViolation проверяет нарушение уникального индекса.
// Если constraint не пустой, сравнивается и имя ограничения.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsSerializationFailure проверяет конфликт сериализации или deadlock:
// транзакцию можно повторить, но текущая попытка проиграла гонку
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == CodeSerializationFailure || pqErr.Code == CodeDeadlockDetected
}
