package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// SlotAvailability represents the availability of one display slot
type SlotAvailability struct {
	StartTime        types.TimeString
	EndTime          types.TimeString
	AvailableCount   int
	TotalConsultants int
	IsAvailable      bool
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}
