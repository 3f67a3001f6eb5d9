// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ErrorCode int

const (
	ErrInternal ErrorCode = 1000 + iota
	ErrDatabase
)

const (
	ErrValidation ErrorCode = 2000 + iota
	ErrNotFound
	ErrConflict
	ErrForeignKey
)

// Error carries a stable code alongside a human message and an optional
// wrapped cause.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDB translates storage-layer errors into the application taxonomy.
// Constraint violations are reported by the database itself (GORM error
// translation on the postgres driver), so uniqueness and referential
// integrity hold under concurrent writers without application pre-checks.
func FromDB(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(ErrNotFound, resource+" not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(ErrConflict, resource+" already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(ErrForeignKey, resource+" violates a referential constraint", err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return Wrap(ErrValidation, resource+" violates a check constraint", err)
	default:
		return Wrap(ErrDatabase, "database error on "+resource, err)
	}
}
