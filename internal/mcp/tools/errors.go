package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/usestring/vra-mcp/pkg/client"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeVRAError     = "VRA_ERROR"
	ErrCodeAuthError    = "AUTH_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeTimeout      = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapVRAError converts an SDK error to a coded error.
func WrapVRAError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}
	coded = classify(err)

	slog.Warn("vRA API error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

func classify(err error) *CodedError {
	var (
		authErr  *client.AuthenticationError
		reqErr   *client.RequestError
		parseErr *client.ParseError
		netErr   net.Error
	)

	switch {
	case errors.As(err, &authErr):
		return &CodedError{Code: ErrCodeAuthError, Message: authErr.Message, Cause: err}
	case errors.Is(err, client.ErrNotFound):
		return &CodedError{Code: ErrCodeNotFound, Message: "no matching record", Cause: err}
	case errors.Is(err, client.ErrAmbiguous):
		return &CodedError{Code: ErrCodeInvalidInput, Message: "name matches several records, use an id or a more specific name", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.As(err, &reqErr):
		switch reqErr.StatusCode {
		case http.StatusNotFound:
			return &CodedError{Code: ErrCodeNotFound, Message: reqErr.Message, Cause: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &CodedError{Code: ErrCodeAuthError, Message: reqErr.Message, Cause: err}
		}
		if errors.Is(err, client.ErrNoToken) {
			return &CodedError{Code: ErrCodeAuthError, Message: reqErr.Message, Cause: err}
		}
		return &CodedError{Code: ErrCodeVRAError, Message: reqErr.Message, Cause: err}
	case errors.As(err, &parseErr):
		return &CodedError{Code: ErrCodeVRAError, Message: "unexpected response from vRA", Cause: err}
	default:
		return &CodedError{Code: ErrCodeVRAError, Message: err.Error(), Cause: err}
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
