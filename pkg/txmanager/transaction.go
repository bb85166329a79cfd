package txmanager

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

// State состояние транзакции
type State int

const (
	NoTransaction State = iota
	Open
	Committed
	RolledBack
)

// String возвращает название состояния
func (s State) String() string {
	switch s {
	case NoTransaction:
		return "no_transaction"
	case Open:
		return "open"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

type transactionKey struct{}

// Transaction транзакция с явным состоянием.
// Commit и Rollback допустимы только в состоянии Open.
type Transaction struct {
	mu    sync.Mutex
	tx    dbmetrics.TxExecutor
	state State
}

// State возвращает текущее состояние
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// IsOpen проверяет, что транзакция открыта
func (t *Transaction) IsOpen() bool {
	return t.State() == Open
}

// Commit фиксирует транзакцию
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Open {
		return fmt.Errorf("%w: commit in state %s", ErrNoActiveTransaction, t.state)
	}

	if err := t.tx.Commit(); err != nil {
		// После неудачного COMMIT PostgreSQL откатывает транзакцию сам
		t.state = RolledBack
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}

	t.state = Committed
	return nil
}

// Rollback откатывает транзакцию
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Open {
		return fmt.Errorf("%w: rollback in state %s", ErrNoActiveTransaction, t.state)
	}

	t.state = RolledBack
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		// sql.ErrTxDone: database/sql уже откатил транзакцию при отмене контекста
		return err
	}
	return nil
}
