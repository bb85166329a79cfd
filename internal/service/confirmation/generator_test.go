package confirmation

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var codePattern = regexp.MustCompile(`^APT-\d{8}-[A-Z0-9]{5}$`)

type fakeCodeRepo struct {
	mu       sync.Mutex
	taken    map[string]bool
	takeAll  bool
	err      error
	attempts int
}

func (f *fakeCodeRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.err != nil {
		return false, f.err
	}
	return f.takeAll || f.taken[code], nil
}

func TestGenerator_Format(t *testing.T) {
	gen := NewGenerator(&fakeCodeRepo{}, 10)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := gen.Generate(context.Background(), date)
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
		assert.Len(t, code, len("APT-20250602-XXXXX"))
		assert.Equal(t, "APT-20250602-", code[:13])
		seen[code] = true
	}
	// 36^5 вариантов: совпадения среди 200 кодов практически невозможны
	assert.Greater(t, len(seen), 195)
}

func TestGenerator_RetriesOnCollision(t *testing.T) {
	// Источник случайности с нулевыми байтами всегда дает "AAAAA"
	repo := &fakeCodeRepo{taken: map[string]bool{"APT-20250602-AAAAA": true}}
	gen := NewGenerator(repo, 3)
	gen.random = bytes.NewReader(make([]byte, 1024))

	_, err := gen.Generate(context.Background(), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrCodeGenerationExhausted)
	assert.Equal(t, 3, repo.attempts)
}

func TestGenerator_ExhaustedAfterMaxAttempts(t *testing.T) {
	repo := &fakeCodeRepo{takeAll: true}
	gen := NewGenerator(repo, 0)

	_, err := gen.Generate(context.Background(), time.Now())
	assert.ErrorIs(t, err, domain.ErrCodeGenerationExhausted)
	assert.Equal(t, domain.CodeMaxAttempts, repo.attempts)
}

func TestGenerator_RepositoryError(t *testing.T) {
	gen := NewGenerator(&fakeCodeRepo{err: errors.New("db down")}, 10)

	_, err := gen.Generate(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, domain.ErrCodeGenerationExhausted)
}
