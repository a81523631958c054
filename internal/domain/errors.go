package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus wraps ErrInvalidInput so callers checking either match.
	ErrInvalidStatus = fmt.Errorf("unrecognized issue status: %w", ErrInvalidInput)
)
