package consultant

import "github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"

// DBExecutor интерфейс для выполнения запросов (из dbmetrics)
type DBExecutor = dbmetrics.DBExecutor
