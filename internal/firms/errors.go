package firms

import "errors"

var (
	ErrNotFound     = errors.New("firm not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInactive     = errors.New("firm is inactive")
)
