package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BranchID  int64            // ID филиала
	ServiceID int64            // ID услуги
	Date      time.Time        // Дата записи (без времени)
	StartTime types.TimeString // Время начала (например, "10:00")
	Customer  CustomerInfo     // Данные клиента
	Notes     *string          // Дополнительные заметки (опционально)
}

// CustomerInfo данные клиента из запроса
type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

// Response созданная запись вместе с филиалом, услугой, клиентом и консультантом
type Response = models.AppointmentResponse
