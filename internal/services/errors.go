package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrRateLimited          = errors.New("rate limited")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrVerificationRequired = errors.New("verification required")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

// RateLimitError несёт retry-after; errors.Is(err, ErrRateLimited) == true.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %ds", int(e.RetryAfter.Seconds()))
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// validationError оборачивает ErrValidation с человекочитаемым текстом.
type validationError struct {
	msg string
}

func (e *validationError) Error() string        { return e.msg }
func (e *validationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(msg string) error { return &validationError{msg: msg} }
