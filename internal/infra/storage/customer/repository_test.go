package customer

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var columns = []string{"id", "email", "first_name", "last_name", "phone", "created_at", "updated_at"}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetByEmail_NormalizesEmail(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE email = $1")).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), "jane@example.com", "Jane", "Doe", nil, now, now))

	c, err := repo.GetByEmail(context.Background(), "  Jane@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Nil(t, c.Phone)
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM customers")).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestRepository_FindOrCreate(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	// Существующий клиент: возвращаются сохраненные имя и телефон
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers (email,first_name,last_name,phone) VALUES ($1,$2,$3,$4) ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email RETURNING")).
		WithArgs("jane@example.com", "J", "D", nil).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), "jane@example.com", "Jane", "Doe", "+27110000000", now, now))

	c, err := repo.FindOrCreate(context.Background(), &domain.Customer{Email: "Jane@example.com", FirstName: "J", LastName: "D"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Jane", c.FirstName)
	require.NotNil(t, c.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
