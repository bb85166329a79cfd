package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "description", "duration_minutes", "is_active", "created_at", "updated_at"}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), "Account opening", "desc", int64(30), true, now, now))

	svc, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 30, svc.DurationMinutes)
	require.NotNil(t, svc.Description)
	assert.Equal(t, "desc", *svc.Description)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM services")).WillReturnRows(sqlmock.NewRows(columns))

	_, err = repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
