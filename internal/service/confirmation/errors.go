package confirmation

import "errors"

var (
	// ErrInternal возвращается при ошибках хранилища или источника случайности
	ErrInternal = errors.New("confirmation: internal error")
)
