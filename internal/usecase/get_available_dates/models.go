package get_available_dates

import "time"

// Request модель запроса на получение рабочих дат филиала
type Request struct {
	BranchID  int64 // ID филиала
	DaysAhead int   // Сколько дней от сегодня просматривать (0 - по умолчанию)
}

// Response даты, в которые филиал открыт
type Response struct {
	BranchID int64
	Dates    []time.Time
}
