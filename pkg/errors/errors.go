// Package errors carries the coded failures of emberview.
//
// A [Code] names the failure category, and its [Code.Class] decides the
// policy applied by the pipeline, the CLI and the preview server:
//
//   - [ClassInput]: a flag, config value, query parameter or column name was
//     rejected; the whole operation fails
//   - [ClassData]: an input file is missing or malformed, or an aggregation
//     came out empty; the affected chart is skipped and the rest still render
//   - [ClassInternal]: anything else
//
// Records that merely lack a field never produce an error. They drop out of
// the aggregation that needs the field.
//
//	err := errors.New(errors.ErrCodeInvalidChart, "unknown chart kind: %s", kind)
//	if errors.Is(err, errors.ErrCodeInvalidChart) { ... }
//
//	err = errors.Wrap(errors.ErrCodeLoadFailed, cause, "read %s", path)
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable failure category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidChart  Code = "INVALID_CHART"
	ErrCodeInvalidField  Code = "INVALID_FIELD"
	ErrCodeInvalidRange  Code = "INVALID_RANGE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeLoadFailed   Code = "LOAD_FAILED"
	ErrCodeEmptyResult  Code = "EMPTY_RESULT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by how callers react to them.
type Class int

const (
	ClassInternal Class = iota
	ClassInput
	ClassData
)

// Class reports the class of c. Unknown codes are internal.
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidChart,
		ErrCodeInvalidField, ErrCodeInvalidRange, ErrCodeInvalidPath:
		return ClassInput
	case ErrCodeFileNotFound, ErrCodeLoadFailed, ErrCodeEmptyResult:
		return ClassData
	}
	return ClassInternal
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost returns the first *Error in err's chain, or nil.
func outermost(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e := outermost(err)
	return e != nil && e.Code == code
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	if e := outermost(err); e != nil {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code prefix,
// or err.Error() for any other error.
func UserMessage(err error) string {
	if e := outermost(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// IsSkippable reports whether err only aborts the chart it was raised for.
func IsSkippable(err error) bool {
	return err != nil && GetCode(err).Class() == ClassData
}
