package engineerrors

import (
	"errors"
	"fmt"
)

// The engine's fatal error taxonomy. Soft lookup failures (missing
// scholarship, unparseable date) are not represented here: they are absorbed
// at the call site and surface only as degraded fields.

// ConfigurationError means the fee-structure inputs are missing or invalid.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

func NewConfiguration(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError means the request itself is malformed: a bad approval
// amount, a missing required id.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced record does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NewNotFound(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// ConcurrencyConflict means a conditional write lost the race; callers may
// retry after re-reading.
type ConcurrencyConflict struct {
	Msg string
}

func (e *ConcurrencyConflict) Error() string { return e.Msg }

func NewConcurrencyConflict(format string, args ...interface{}) error {
	return &ConcurrencyConflict{Msg: fmt.Sprintf(format, args...)}
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConcurrencyConflict(err error) bool {
	var target *ConcurrencyConflict
	return errors.As(err, &target)
}
