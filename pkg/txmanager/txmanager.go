package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, когда не удалось открыть транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, когда не удалось зафиксировать транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrRollbackTx возвращается, когда не удалось откатить транзакцию
	ErrRollbackTx = errors.New("txmanager: failed to rollback transaction")

	// ErrNoActiveTransaction возвращается при попытке завершить транзакцию, которая не открыта
	ErrNoActiveTransaction = errors.New("txmanager: no active transaction")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager управляет транзакциями и прокидывает их через context
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Begin открывает транзакцию и возвращает контекст, в котором она доступна репозиториям.
// Завершать транзакцию (Commit/Rollback) должен вызывающий код.
func (m *TransactionManager) Begin(ctx context.Context, opts *sql.TxOptions) (context.Context, *Transaction, error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return ctx, &Transaction{state: NoTransaction}, fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	t := &Transaction{tx: tx, state: Open}
	txCtx := dbmetrics.ContextWithTx(ctx, tx)
	txCtx = context.WithValue(txCtx, transactionKey{}, t)
	return txCtx, t, nil
}

// Do выполняет fn в транзакции с уровнем изоляции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) do(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов присоединяется к уже открытой транзакции
	if IsInTransaction(ctx) {
		return fn(ctx)
	}

	txCtx, tx, err := m.Begin(ctx, opts)
	if err != nil {
		// Транзакция не открыта - откатывать нечего
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if tx.IsOpen() {
				_ = tx.Rollback()
			}
			panic(p)
		}
	}()

	if fnErr := fn(txCtx); fnErr != nil {
		if tx.IsOpen() {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("%w (%w: %v)", fnErr, ErrRollbackTx, rbErr)
			}
		}
		return fnErr
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}

// IsInTransaction проверяет, есть ли в контексте открытая транзакция
func IsInTransaction(ctx context.Context) bool {
	return StateFromContext(ctx) == Open
}

// StateFromContext возвращает состояние транзакции из контекста.
// Без транзакции в контексте возвращает NoTransaction.
func StateFromContext(ctx context.Context) State {
	t, ok := ctx.Value(transactionKey{}).(*Transaction)
	if !ok || t == nil {
		return NoTransaction
	}
	return t.State()
}
