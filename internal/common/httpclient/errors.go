package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chorify/chorify/internal/common/apperrors"
	"github.com/tidwall/gjson"
)

// HTTPError represents a non-2xx response from the server.
type HTTPError struct {
	StatusCode int    // HTTP status code of the response
	Message    string // Error message extracted from the body, or the body itself
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies HTTPError as apperrors.ErrHTTPStatus.
func (e *HTTPError) Unwrap() error {
	return apperrors.ErrHTTPStatus
}

// TransportError means no response was received from the server.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
}

// Unwrap exposes both the transport kind and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{apperrors.ErrTransport, e.Err}
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// HTTP status failure.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func newHTTPError(status int, body []byte) *HTTPError {
	return &HTTPError{
		StatusCode: status,
		Message:    errorMessage(status, body),
	}
}

// errorMessage extracts a readable message from the REST framework error
// shapes: {"detail": ...}, {"non_field_errors": [...]}, {"error": ...} or
// {"<field>": [...]}.
func errorMessage(status int, body []byte) string {
	if !gjson.ValidBytes(body) {
		msg := strings.TrimSpace(string(body))
		if msg == "" && status == http.StatusNotFound {
			return "server doesn't implement this endpoint"
		}
		return msg
	}
	parsed := gjson.ParseBytes(body)
	for _, key := range []string{"detail", "error", "non_field_errors.0"} {
		if v := parsed.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	var msg string
	parsed.ForEach(func(key, value gjson.Result) bool {
		text := value.String()
		if value.IsArray() {
			text = value.Get("0").String()
		}
		msg = key.String() + ": " + text
		return false
	})
	if msg == "" {
		return strings.TrimSpace(string(body))
	}
	return msg
}
