package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsInitMigration(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	content, err := fs.ReadFile(FS, "00001_init.sql")
	require.NoError(t, err)

	sql := string(content)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	// имена ограничений используются репозиториями при разборе ошибок PostgreSQL
	assert.Contains(t, sql, "appointments_consultant_slot_uidx")
	assert.Contains(t, sql, "appointments_confirmation_code_key")
	assert.Contains(t, sql, "WHERE consultant_id IS NOT NULL AND status <> 'cancelled'")
}
