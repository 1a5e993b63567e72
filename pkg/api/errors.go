package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies an *Error.
type Kind string

const (
	// KindNetwork indicates the request never produced a response.
	KindNetwork Kind = "network"
	// KindHTTP indicates a response with a non-2xx status.
	KindHTTP Kind = "http"
	// KindDecode indicates a response body that did not match the expected shape.
	KindDecode Kind = "decode"
)

const fallbackMessage = "Request failed"

// Error is returned by every Client request method.
type Error struct {
	Kind    Kind
	Message string
	// StatusCode is set for KindHTTP and KindDecode.
	StatusCode int
	// Data is the parsed response body of a failed request, or nil.
	Data  any
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newNetworkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: "request failed", Cause: cause}
}

func newDecodeError(status int, msg string, cause error) *Error {
	return &Error{Kind: KindDecode, Message: msg, StatusCode: status, Cause: cause}
}

// newHTTPError picks the message from the body's "error" field, then the
// status line's reason phrase, then a fixed fallback.
func newHTTPError(status int, statusLine string, data any) *Error {
	msg := ""
	if obj, ok := data.(map[string]any); ok {
		if s, ok := obj["error"].(string); ok {
			msg = s
		}
	}
	if msg == "" {
		msg = reasonPhrase(statusLine)
	}
	if msg == "" {
		msg = fallbackMessage
	}
	return &Error{Kind: KindHTTP, Message: msg, StatusCode: status, Data: data}
}

// reasonPhrase returns "Unauthorized" for "401 Unauthorized".
func reasonPhrase(statusLine string) string {
	statusLine = strings.TrimSpace(statusLine)
	code, rest, found := strings.Cut(statusLine, " ")
	if _, err := strconv.Atoi(code); err != nil {
		return statusLine
	}
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

func kindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}

// IsHTTPError reports whether err is a non-2xx response.
func IsHTTPError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindHTTP
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNetwork
}

// IsDecodeError reports whether err is a malformed response body.
func IsDecodeError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindDecode
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
