package organizations

import "errors"

var (
	ErrNotFound     = errors.New("organization not found")
	ErrInvalidInput = errors.New("invalid input")
)
