package model

import (
	"errors"
	"fmt"
)

// ErrorCode stable taxonomy tag surfaced to callers
type ErrorCode string

const (
	CodeValidation             ErrorCode = "ValidationError"
	CodeNotFound               ErrorCode = "NotFound"
	CodeInvalidStateTransition ErrorCode = "InvalidStateTransition"
	CodeWorkerConflict         ErrorCode = "WorkerConflict"
	CodeNoCoordinatorAvailable ErrorCode = "NoCoordinatorAvailable"
	CodeAlreadyRated           ErrorCode = "AlreadyRated"
	CodeSlotNotFound           ErrorCode = "SlotNotFound"
	CodeConflict               ErrorCode = "Conflict"  // lost an optimistic version race
	CodeForbidden              ErrorCode = "Forbidden" // caller is not the party allowed to act
)

// Sentinels for errors.Is
var (
	ErrValidation             = &EngineError{Code: CodeValidation}
	ErrNotFound               = &EngineError{Code: CodeNotFound}
	ErrInvalidStateTransition = &EngineError{Code: CodeInvalidStateTransition}
	ErrWorkerConflict         = &EngineError{Code: CodeWorkerConflict}
	ErrNoCoordinatorAvailable = &EngineError{Code: CodeNoCoordinatorAvailable}
	ErrAlreadyRated           = &EngineError{Code: CodeAlreadyRated}
	ErrSlotNotFound           = &EngineError{Code: CodeSlotNotFound}
	ErrConflict               = &EngineError{Code: CodeConflict}
	ErrForbidden              = &EngineError{Code: CodeForbidden}
)

// EngineError engine error carrying a taxonomy code
type EngineError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is matches any EngineError with the same code
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, format string, args ...interface{}) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...interface{}) error {
	return newError(CodeValidation, format, args...)
}

func NewNotFoundError(format string, args ...interface{}) error {
	return newError(CodeNotFound, format, args...)
}

func NewInvalidTransitionError(format string, args ...interface{}) error {
	return newError(CodeInvalidStateTransition, format, args...)
}

func NewWorkerConflictError(format string, args ...interface{}) error {
	return newError(CodeWorkerConflict, format, args...)
}

func NewNoCoordinatorError(format string, args ...interface{}) error {
	return newError(CodeNoCoordinatorAvailable, format, args...)
}

func NewAlreadyRatedError(format string, args ...interface{}) error {
	return newError(CodeAlreadyRated, format, args...)
}

func NewSlotNotFoundError(format string, args ...interface{}) error {
	return newError(CodeSlotNotFound, format, args...)
}

func NewConflictError(format string, args ...interface{}) error {
	return newError(CodeConflict, format, args...)
}

func NewForbiddenError(format string, args ...interface{}) error {
	return newError(CodeForbidden, format, args...)
}

// CodeOf returns the taxonomy code of err, or "" for untagged errors
func CodeOf(err error) ErrorCode {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
