package consultant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var consultantColumns = []string{
	"id",
	"branch_id",
	"first_name",
	"last_name",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий консультантов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория консультантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает консультанта по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Consultant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(consultantColumns...).
		From("consultants").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	consultant, err := scanConsultant(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConsultantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan consultant: %v", ErrScanRow, err)
	}

	return consultant, nil
}

// ListByBranch возвращает консультантов филиала по возрастанию ID.
// Порядок важен: назначение консультанта берет первого свободного.
func (r *Repository) ListByBranch(ctx context.Context, branchID int64, activeOnly bool) ([]*domain.Consultant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(consultantColumns...).
		From("consultants").
		Where(squirrel.Eq{"branch_id": branchID})

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	consultants := make([]*domain.Consultant, 0)
	for rows.Next() {
		consultant, err := scanConsultant(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBranch - scan row: %v", ErrScanRow, err)
		}
		consultants = append(consultants, consultant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBranch - rows error: %v", ErrScanRow, err)
	}

	return consultants, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConsultant(row rowScanner) (*domain.Consultant, error) {
	var consultant domain.Consultant
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&consultant.ID,
		&consultant.BranchID,
		&consultant.FirstName,
		&consultant.LastName,
		&consultant.IsActive,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	consultant.CreatedAt = createdAt.Time
	consultant.UpdatedAt = updatedAt.Time
	return &consultant, nil
}
