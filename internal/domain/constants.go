package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot grid
const (
	SlotIncrementMinutes   = 15 // шаг, с которым может начинаться запись
	DisplayStepMinutes     = 30 // шаг отображения свободных слотов
	MinLeadMinutes         = 60 // минимальный запас до начала слота
	CodeMaxAttempts        = 10
	DefaultDaysAhead       = 30
	MaxDaysAhead           = 90
	MaxNotesLength         = 500
	MaxCancelReasonLength  = 500
	MaxNameLength          = 100
	MaxServiceDurationMins = 24 * 60
)

// Default operating hours for weekdays without a stored record
const (
	DefaultOpenTime  types.TimeString = "08:00"
	DefaultCloseTime types.TimeString = "17:00"
)

// Formats
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)
