package customer

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

const customerReturning = "RETURNING id, email, first_name, last_name, phone, created_at, updated_at"

// Repository репозиторий клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByEmail получает клиента по email (без учета регистра)
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.getOne(ctx, "GetByEmail", squirrel.Eq{"email": domain.NormalizeEmail(email)})
}

// FindOrCreate возвращает клиента с таким email или создает нового.
// Данные существующего клиента не перезаписываются.
func (r *Repository) FindOrCreate(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// DO UPDATE вместо DO NOTHING, чтобы RETURNING вернул существующую строку
	query, args, err := psqlbuilder.Insert("customers").
		Columns("email", "first_name", "last_name", "phone").
		Values(domain.NormalizeEmail(customer.Email), customer.FirstName, customer.LastName, customer.Phone).
		Suffix("ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email " + customerReturning).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindOrCreate - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := scanCustomer(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: FindOrCreate - execute upsert: %v", ErrExecQuery, err)
	}

	return result, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "email", "first_name", "last_name", "phone", "created_at", "updated_at").
		From("customers").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	customer, err := scanCustomer(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan customer: %v", ErrScanRow, op, err)
	}

	return customer, nil
}

func scanCustomer(row *sql.Row) (*domain.Customer, error) {
	var customer domain.Customer
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&customer.ID,
		&customer.Email,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	customer.CreatedAt = createdAt.Time
	customer.UpdatedAt = updatedAt.Time
	return &customer, nil
}
