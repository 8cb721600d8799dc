package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by name lookups that match nothing.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned by name lookups that match more than one record.
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrNoToken is wrapped by the RequestError returned when a call is made on
	// a Session that holds no bearer token (never logged in, or logged out).
	ErrNoToken = errors.New("session has no auth token")
)

// AuthenticationError is returned by Login when the identity service rejects
// the credentials or does not hand out a token.
type AuthenticationError struct {
	Host       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("vRA authentication failed for %s (status %d): %s", e.Host, e.StatusCode, e.Message)
}

// RequestError is returned when an API call fails: either the server answered
// with a non-2xx status, or the call was refused locally (StatusCode 0).
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("vRA request %s %s: %s", e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("vRA API error %d on %s %s: %s", e.StatusCode, e.Method, e.URL, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a response body cannot be decoded into the
// expected record, including when a required field is missing.
type ParseError struct {
	Type     string
	Problems []string
	Body     []byte
	Err      error
}

func (e *ParseError) Error() string {
	if len(e.Problems) > 0 {
		return fmt.Sprintf("parsing %s: %s", e.Type, strings.Join(e.Problems, "; "))
	}
	return fmt.Sprintf("parsing %s: %v", e.Type, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RequestFailedError is returned by WaitForRequest when a catalog request
// reaches a terminal state other than SUCCESSFUL.
type RequestFailedError struct {
	Request *CatalogRequest
}

func (e *RequestFailedError) Error() string {
	msg := fmt.Sprintf("request %s ended in state %s", e.Request.ID, e.Request.State)
	if e.Request.RequestCompletion != nil && e.Request.RequestCompletion.CompletionDetails != "" {
		msg += ": " + e.Request.RequestCompletion.CompletionDetails
	}
	return msg
}

// errorResponse is the JSON structure of vRA error bodies.
type errorResponse struct {
	Errors []struct {
		Code          int    `json:"code"`
		Message       string `json:"message"`
		SystemMessage string `json:"systemMessage"`
	} `json:"errors"`
}

// apiMessage extracts a human readable message from an error body, falling
// back to the raw body.
func apiMessage(body []byte) string {
	var resp errorResponse
	if json.Unmarshal(body, &resp) == nil && len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			switch {
			case e.SystemMessage != "" && e.SystemMessage != e.Message:
				msgs = append(msgs, fmt.Sprintf("%s (%s)", e.Message, e.SystemMessage))
			case e.Message != "":
				msgs = append(msgs, e.Message)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return strings.TrimSpace(string(body))
}
