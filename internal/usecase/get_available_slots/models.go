package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	BranchID  int64     // ID филиала
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	BranchID        int64     // ID филиала
	ServiceID       int64     // ID услуги
	DurationMinutes int       // Длительность услуги
	Slots           []Slot    // Слоты дня
}

// Slot модель временного слота
type Slot struct {
	StartTime        types.TimeString // Время начала слота (например, "10:00")
	EndTime          types.TimeString // Время окончания слота
	AvailableCount   int              // Количество свободных консультантов
	TotalConsultants int              // Количество активных консультантов филиала
	IsAvailable      bool             // Можно ли записаться (есть место и слот не раньше чем через час)
}
