// internal/error/error.go

package error

import (
	"errors"
	"fmt"
)

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

type ErrorType int

const (
	ConfigError ErrorType = iota
	ConnectionError
	NotFoundError
	IOError
	ProcessError
	ValidationError
)

func (t ErrorType) String() string {
	switch t {
	case ConfigError:
		return "config"
	case ConnectionError:
		return "connection"
	case NotFoundError:
		return "not found"
	case IOError:
		return "io"
	case ProcessError:
		return "process"
	case ValidationError:
		return "validation"
	default:
		return "unknown"
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap pozwala na użycie errors.Is / errors.As na błędzie źródłowym
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is porównuje błędy aplikacji po typie
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Sentinele do porównań przez errors.Is
var (
	ErrNotFound   = &AppError{Type: NotFoundError}
	ErrIO         = &AppError{Type: IOError}
	ErrConfig     = &AppError{Type: ConfigError}
	ErrConnection = &AppError{Type: ConnectionError}
	ErrProcess    = &AppError{Type: ProcessError}
	ErrValidation = &AppError{Type: ValidationError}
)

// TypeOf zwraca typ błędu aplikacji albo false, jeśli błąd nie jest AppError
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type, true
	}
	return 0, false
}
