package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Имена ограничений из миграции
const (
	ConstraintConsultantSlot   = "appointments_consultant_slot_uidx"
	ConstraintConfirmationCode = "appointments_confirmation_code_key"
)

var appointmentColumns = []string{
	"id",
	"confirmation_code",
	"customer_id",
	"branch_id",
	"service_id",
	"consultant_id",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса слота консультанта и конфликт сериализации
// возвращаются как ErrSlotTaken, совпадение кода подтверждения как ErrDuplicateCode.
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"confirmation_code",
			"customer_id",
			"branch_id",
			"service_id",
			"consultant_id",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
			"notes",
		).
		Values(
			appointment.ConfirmationCode,
			appointment.CustomerID,
			appointment.BranchID,
			appointment.ServiceID,
			appointment.ConsultantID,
			appointment.AppointmentDate.Format(domain.DateFormat),
			appointment.StartTime,
			appointment.EndTime,
			appointment.Status,
			appointment.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&createdAt,
		&updatedAt,
	)

	switch {
	case err == nil:
	case pgerrors.IsUniqueViolation(err, ConstraintConsultantSlot), pgerrors.IsSerializationFailure(err):
		return nil, fmt.Errorf("%w: Create - consultant %d at %s %s: %v",
			ErrSlotTaken, ptr.Value(appointment.ConsultantID), appointment.AppointmentDate.Format(domain.DateFormat), appointment.StartTime, err)
	case pgerrors.IsUniqueViolation(err, ConstraintConfirmationCode):
		return nil, fmt.Errorf("%w: Create - code %s: %v", ErrDuplicateCode, appointment.ConfirmationCode, err)
	default:
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByCode получает запись по коду подтверждения
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Appointment, error) {
	return r.getOne(ctx, "GetByCode", squirrel.Eq{"confirmation_code": code})
}

// ExistsByCode проверяет, занят ли код подтверждения
func (r *Repository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("appointments").
		Where(squirrel.Eq{"confirmation_code": code}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsByCode - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsByCode - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// ListActiveByConsultants возвращает неотмененные записи консультантов на дату,
// отсортированные по consultant_id и start_time
func (r *Repository) ListActiveByConsultants(ctx context.Context, consultantIDs []int64, date time.Time) ([]*domain.Appointment, error) {
	if len(consultantIDs) == 0 {
		return []*domain.Appointment{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"consultant_id": consultantIDs}).
		Where(squirrel.Eq{"appointment_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("consultant_id ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByConsultants - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByConsultants - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListActiveByCustomer возвращает неотмененные записи клиента на дату во всех филиалах
// вместе с названием филиала
func (r *Repository) ListActiveByCustomer(ctx context.Context, customerID int64, date time.Time) ([]*domain.CustomerAppointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a.branch_id",
		"b.name",
		"a.start_time",
		"a.end_time",
	).
		From("appointments a").
		Join("branches b ON b.id = a.branch_id").
		Where(squirrel.Eq{"a.customer_id": customerID}).
		Where(squirrel.Eq{"a.appointment_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"a.status": domain.StatusCancelled}).
		OrderBy("a.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.CustomerAppointment, 0)
	for rows.Next() {
		var ca domain.CustomerAppointment
		if err := rows.Scan(&ca.AppointmentID, &ca.BranchID, &ca.BranchName, &ca.StartTime, &ca.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListActiveByCustomer - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &ca)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByCustomer - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Cancel переводит запись в статус cancelled с причиной.
// Обновляются только записи, которые еще можно отменить.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// UpdateStatus переводит активную запись (pending/confirmed) в новый статус
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// LockSchedule берет транзакционные advisory-блокировки по ключам.
// Ключи берутся по возрастанию, чтобы параллельные транзакции не попадали в deadlock.
// Блокировки снимаются при COMMIT/ROLLBACK.
func (r *Repository) LockSchedule(ctx context.Context, keys ...int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sorted := append([]int64(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var prev int64
	for i, key := range sorted {
		if i > 0 && key == prev {
			continue
		}
		prev = key

		if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
			if pgerrors.IsSerializationFailure(err) {
				return fmt.Errorf("%w: LockSchedule - key %d: %v", ErrSlotTaken, key, err)
			}
			return fmt.Errorf("%w: LockSchedule - key %d: %v", ErrExecQuery, key, err)
		}
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	return appointment, nil
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var consultantID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.ConfirmationCode,
		&appointment.CustomerID,
		&appointment.BranchID,
		&appointment.ServiceID,
		&consultantID,
		&appointment.AppointmentDate,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.Notes,
		&appointment.CancellationReason,
		&appointment.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if consultantID.Valid {
		id := consultantID.Int64
		appointment.ConsultantID = &id
	}
	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
