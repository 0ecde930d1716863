// Package errors defines coded errors shared by the CLI and the HTTP server.
//
// Library packages return plain wrapped errors with their own sentinels. The
// pipeline and the server attach a [Code] at the boundary where an error
// becomes something a user sees, so the CLI can print a short message and
// the server can pick a status code:
//
//	if _, ok := graph.Station(id); !ok {
//	    return errors.New(errors.ErrCodeNotFound, "station %q", id)
//	}
//	g, err := io.ImportNetwork(networkPath, spiderPath)
//	if err != nil {
//	    return errors.Wrap(errors.ErrCodeInvalidNetwork, err, "load %s", networkPath)
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidNetwork Code = "INVALID_NETWORK"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// ErrCodeNoData means the samples have no bucket for the requested day.
	ErrCodeNoData Code = "NO_DATA"

	// ErrCodeStaleProjection means geometry was built from a layout that has
	// since been re-projected.
	ErrCodeStaleProjection Code = "STALE_PROJECTION"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var httpStatus = map[Code]int{
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidFormat:   http.StatusBadRequest,
	ErrCodeInvalidPath:     http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeFileNotFound:    http.StatusNotFound,
	ErrCodeSessionNotFound: http.StatusNotFound,
	ErrCodeNoData:          http.StatusNotFound,
	ErrCodeStaleProjection: http.StatusConflict,
	ErrCodeInvalidNetwork:  http.StatusUnprocessableEntity,
	ErrCodeUnsupported:     http.StatusNotImplemented,
}

// Error carries a Code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// or cause, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status. Uncoded errors are 500.
func HTTPStatus(err error) int {
	if s, ok := httpStatus[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
