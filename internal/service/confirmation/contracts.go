package confirmation

import "context"

// CodeRepository проверка занятости кода
type CodeRepository interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
