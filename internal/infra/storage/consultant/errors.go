package consultant

import "errors"

var (
	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = errors.New("consultant.repository: consultant not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("consultant.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("consultant.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("consultant.repository: failed to scan row")
)
