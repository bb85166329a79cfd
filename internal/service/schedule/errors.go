package schedule

import "errors"

var (
	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("schedule: internal error")
)
