package confirmation

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	codePrefix   = "APT"
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLength = 5
)

// Generator выдает коды подтверждения вида APT-YYYYMMDD-XXXXX
type Generator struct {
	repo        CodeRepository
	maxAttempts int
	random      io.Reader
}

// NewGenerator создает генератор кодов. maxAttempts - сколько раз пробовать найти свободный код.
func NewGenerator(repo CodeRepository, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = domain.CodeMaxAttempts
	}
	return &Generator{
		repo:        repo,
		maxAttempts: maxAttempts,
		random:      rand.Reader,
	}
}

// Generate возвращает код, которого еще нет в хранилище.
// Дата в коде - дата записи. После maxAttempts совпадений возвращает domain.ErrCodeGenerationExhausted.
func (g *Generator) Generate(ctx context.Context, date time.Time) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code, err := g.newCode(date)
		if err != nil {
			return "", fmt.Errorf("%w: Generate - read random: %v", ErrInternal, err)
		}

		exists, err := g.repo.ExistsByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("%w: Generate - check code %s: %v", ErrInternal, code, err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: %d attempts", domain.ErrCodeGenerationExhausted, g.maxAttempts)
}

func (g *Generator) newCode(date time.Time) (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))

	suffix := make([]byte, suffixLength)
	for i := range suffix {
		n, err := rand.Int(g.random, alphabetSize)
		if err != nil {
			return "", err
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", codePrefix, date.Format("20060102"), suffix), nil
}
