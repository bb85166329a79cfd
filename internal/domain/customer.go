package domain

import (
	"strings"
	"time"
)

// Customer represents a person who books appointments
type Customer struct {
	ID        int64
	Email     string // хранится в нижнем регистре
	FirstName string
	LastName  string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
