package branch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий филиалов и их часов работы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория филиалов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает филиал по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Branch, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"address",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("branches").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var branch domain.Branch
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&branch.ID,
		&branch.Name,
		&branch.Address,
		&branch.IsActive,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan branch: %v", ErrScanRow, err)
	}

	branch.CreatedAt = createdAt.Time
	branch.UpdatedAt = updatedAt.Time

	return &branch, nil
}

// GetOperatingHours получает часы работы филиала для дня недели
func (r *Repository) GetOperatingHours(ctx context.Context, branchID int64, weekday time.Weekday) (*domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"branch_id",
		"weekday",
		"open_time",
		"close_time",
		"is_closed",
	).
		From("branch_operating_hours").
		Where(squirrel.Eq{"branch_id": branchID, "weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - build select query: %v", ErrBuildQuery, err)
	}

	hours, err := scanOperatingHours(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOperatingHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - scan hours: %v", ErrScanRow, err)
	}

	return hours, nil
}

// ListOperatingHours получает все записи о часах работы филиала, отсортированные по дню недели
func (r *Repository) ListOperatingHours(ctx context.Context, branchID int64) ([]*domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"branch_id",
		"weekday",
		"open_time",
		"close_time",
		"is_closed",
	).
		From("branch_operating_hours").
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOperatingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOperatingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.OperatingHours, 0, 7)
	for rows.Next() {
		hours, err := scanOperatingHours(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOperatingHours - scan row: %v", ErrScanRow, err)
		}
		result = append(result, hours)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOperatingHours - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOperatingHours(row rowScanner) (*domain.OperatingHours, error) {
	var hours domain.OperatingHours
	var weekday int

	if err := row.Scan(
		&hours.ID,
		&hours.BranchID,
		&weekday,
		&hours.OpenTime,
		&hours.CloseTime,
		&hours.IsClosed,
	); err != nil {
		return nil, err
	}

	hours.Weekday = time.Weekday(weekday)
	return &hours, nil
}
