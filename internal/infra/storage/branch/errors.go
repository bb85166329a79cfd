package branch

import "errors"

var (
	// ErrBranchNotFound возвращается, когда филиал не найден
	ErrBranchNotFound = errors.New("branch.repository: branch not found")

	// ErrOperatingHoursNotFound возвращается, когда для дня недели нет записи о часах работы
	ErrOperatingHoursNotFound = errors.New("branch.repository: operating hours not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("branch.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("branch.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("branch.repository: failed to scan row")
)
