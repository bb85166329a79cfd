package dbmetrics

import (
	"context"
	"database/sql"
	"time"
)

// DBExecutor общий интерфейс для выполнения запросов.
// Реализуется *sql.DB, *sql.Tx, *DB и *Tx.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor транзакция: выполнение запросов + завершение
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// MetricsRecorder минимальный набор методов для записи метрик БД
type MetricsRecorder interface {
	ObserveDBQuery(operation string, duration time.Duration, err error)
}
