package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Branch represents a physical location where appointments take place
type Branch struct {
	ID        int64
	Name      string
	Address   *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OperatingHours stored opening hours of a branch for one weekday
type OperatingHours struct {
	ID        int64
	BranchID  int64
	Weekday   time.Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsClosed  bool
}

// DayHours resolved opening window of a branch for a concrete date
type DayHours struct {
	Open     types.TimeString
	Close    types.TimeString
	IsClosed bool
}

// Contains returns true if [start, end) lies inside the opening window
func (h DayHours) Contains(start, end types.TimeString) bool {
	if h.IsClosed {
		return false
	}
	return !start.IsBefore(h.Open) && !end.IsAfter(h.Close)
}

// Consultant represents a staff member who serves appointments at one branch
type Consultant struct {
	ID        int64
	BranchID  int64
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns "First Last"
func (c *Consultant) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
