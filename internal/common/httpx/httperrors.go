package httpx

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// Error is an HTTP error rendered as {"detail": "..."}.
type Error struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"-"`
}

// Send writes the error response. A nil writer is ignored.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	writeJSON(w, e.StatusCode, e)
}

func (e *Error) Error() string {
	return e.Detail
}

// FieldErrors maps request fields to validation messages and renders as a 400
// response. The key "non_field_errors" holds errors not tied to a field.
type FieldErrors map[string][]string

// Add records a message for field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Send writes the 400 response.
func (fe FieldErrors) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string][]string(fe))
}

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], ", "))
	}
	return strings.Join(parts, "; ")
}

// OrNil returns nil when no field has an error.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Unable to encode error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// Common Errors

// ErrReqMethodNotSupported returns an error for methods without a request body.
func ErrReqMethodNotSupported() *Error {
	return &Error{
		Detail:     "Method not allowed.",
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// ErrUnableToParseReqData returns an error for bodies that are not valid JSON.
func ErrUnableToParseReqData() *Error {
	return &Error{
		Detail:     "JSON parse error.",
		StatusCode: http.StatusBadRequest,
	}
}

// ErrApplicationError returns a 500 error with an optional detail.
func ErrApplicationError(detail ...string) *Error {
	d := "A server error occurred."
	if len(detail) > 0 && detail[0] != "" {
		d = detail[0]
	}
	return &Error{
		Detail:     d,
		StatusCode: http.StatusInternalServerError,
	}
}

// ErrNotAuthenticated is returned when no token was sent.
func ErrNotAuthenticated() *Error {
	return &Error{
		Detail:     "Authentication credentials were not provided.",
		StatusCode: http.StatusUnauthorized,
	}
}

// ErrInvalidToken is returned for unknown tokens.
func ErrInvalidToken() *Error {
	return &Error{
		Detail:     "Invalid token.",
		StatusCode: http.StatusUnauthorized,
	}
}

// ErrNotFound is returned for unknown records.
func ErrNotFound() *Error {
	return &Error{
		Detail:     "Not found.",
		StatusCode: http.StatusNotFound,
	}
}

// ErrStatus returns an error with an arbitrary status.
func ErrStatus(status int) *Error {
	return &Error{
		Detail:     http.StatusText(status),
		StatusCode: status,
	}
}
