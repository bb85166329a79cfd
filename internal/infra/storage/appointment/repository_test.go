package appointment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func newAppointment() *domain.Appointment {
	return &domain.Appointment{
		ConfirmationCode: "APT-20250602-AB12C",
		CustomerID:       7,
		BranchID:         1,
		ServiceID:        3,
		ConsultantID:     ptr.Ptr(int64(11)),
		AppointmentDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:        types.MustTimeString("10:00"),
		EndTime:          types.MustTimeString("10:30"),
		Status:           domain.StatusConfirmed,
	}
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs("APT-20250602-AB12C", int64(7), int64(1), int64(3), int64(11), "2025-06-02", "10:00:00", "10:30:00", "confirmed", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(100), now, now))

	created, err := repo.Create(context.Background(), newAppointment())
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_TranslatesPostgresErrors(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   error
		wantErr error
	}{
		{
			name:    "consultant slot unique violation",
			pgErr:   &pq.Error{Code: "23505", Constraint: ConstraintConsultantSlot},
			wantErr: ErrSlotTaken,
		},
		{
			name:    "serialization failure",
			pgErr:   &pq.Error{Code: "40001"},
			wantErr: ErrSlotTaken,
		},
		{
			name:    "confirmation code collision",
			pgErr:   &pq.Error{Code: "23505", Constraint: ConstraintConfirmationCode},
			wantErr: ErrDuplicateCode,
		},
		{
			name:    "other error",
			pgErr:   &pq.Error{Code: "23503"},
			wantErr: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).WillReturnError(tt.pgErr)

			_, err := repo.Create(context.Background(), newAppointment())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, confirmation_code")).
		WithArgs(int64(100)).
		WillReturnRows(appointmentRows().AddRow(
			int64(100), "APT-20250602-AB12C", int64(7), int64(1), int64(3), int64(11),
			date, "10:00:00", "10:30:00", "confirmed", nil, nil, nil, now, now,
		))

	a, err := repo.GetByID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "APT-20250602-AB12C", a.ConfirmationCode)
	require.NotNil(t, a.ConsultantID)
	assert.Equal(t, int64(11), *a.ConsultantID)
	assert.Equal(t, types.TimeString("10:00"), a.StartTime)
	assert.Equal(t, types.TimeString("10:30"), a.EndTime)
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Nil(t, a.Notes)
	assert.Nil(t, a.CancelledAt)
}

func TestRepository_GetByCode_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE confirmation_code = $1")).
		WithArgs("APT-20250602-ZZZZZ").
		WillReturnRows(appointmentRows())

	_, err := repo.GetByCode(context.Background(), "APT-20250602-ZZZZZ")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_ExistsByCode(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM appointments WHERE confirmation_code = $1 )")).
		WithArgs("APT-20250602-AB12C").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByCode(context.Background(), "APT-20250602-AB12C")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_ListActiveByConsultants(t *testing.T) {
	t.Run("no consultants - no query", func(t *testing.T) {
		repo, mock := newMock(t)

		list, err := repo.ListActiveByConsultants(context.Background(), nil, time.Now())
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by consultants, date and status", func(t *testing.T) {
		repo, mock := newMock(t)
		date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE consultant_id IN ($1,$2) AND appointment_date = $3 AND status <> $4")).
			WithArgs(int64(11), int64(12), "2025-06-02", "cancelled").
			WillReturnRows(appointmentRows().
				AddRow(int64(1), "APT-20250602-AAAAA", int64(7), int64(1), int64(3), int64(11),
					date, "10:00:00", "10:30:00", "confirmed", nil, nil, nil, date, date).
				AddRow(int64(2), "APT-20250602-BBBBB", int64(8), int64(1), int64(3), int64(12),
					date, "11:00:00", "12:00:00", "pending", "window seat", nil, nil, date, date))

		list, err := repo.ListActiveByConsultants(context.Background(), []int64{11, 12}, date)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(12), *list[1].ConsultantID)
		require.NotNil(t, list[1].Notes)
		assert.Equal(t, "window seat", *list[1].Notes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListActiveByCustomer(t *testing.T) {
	repo, mock := newMock(t)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN branches b ON b.id = a.branch_id")).
		WithArgs(int64(7), "2025-06-02", "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "name", "start_time", "end_time"}).
			AddRow(int64(5), int64(2), "Rosebank", "10:00:00", "11:00:00"))

	list, err := repo.ListActiveByCustomer(context.Background(), 7, date)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rosebank", list[0].BranchName)
	assert.Equal(t, types.TimeString("11:00"), list[0].EndTime)
}

func TestRepository_Cancel(t *testing.T) {
	t.Run("updates active appointment", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1, cancellation_reason = $2, cancelled_at = NOW()")).
			WithArgs("cancelled", "changed plans", int64(100), "pending", "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Cancel(context.Background(), 100, ptr.Ptr("changed plans"))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing updated", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Cancel(context.Background(), 100, nil)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $1")).
		WithArgs("completed", int64(100), "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 100, domain.StatusCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockSchedule(t *testing.T) {
	t.Run("requires transaction", func(t *testing.T) {
		repo, _ := newMock(t)
		err := repo.LockSchedule(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNoTransaction)
	})

	t.Run("locks keys in ascending order once", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).WithArgs(int64(-5)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		ctx := dbmetrics.ContextWithTx(context.Background(), tx)

		require.NoError(t, repo.LockSchedule(ctx, 9, 3, -5, 3))
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
