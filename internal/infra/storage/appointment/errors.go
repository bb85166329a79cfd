package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается, когда у консультанта уже есть запись на это время
	// (сработал уникальный индекс или транзакция проиграла конфликт сериализации)
	ErrSlotTaken = errors.New("appointment.repository: consultant slot already taken")

	// ErrDuplicateCode возвращается при совпадении кода подтверждения
	ErrDuplicateCode = errors.New("appointment.repository: confirmation code already exists")

	// ErrNoTransaction возвращается, когда операция требует открытой транзакции
	ErrNoTransaction = errors.New("appointment.repository: operation requires an open transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
