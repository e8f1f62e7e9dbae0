// Package apperrors provides the error kinds shared by the Chorify client. Errors can
// be derived from one another, carry an HTTP status code, and wrap the underlying
// cause so callers classify failures with errors.Is.
package apperrors

// Error extends the standard error interface with derivation and status code
// support. All methods return a new Error and never mutate the receiver.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a new error with this one as its kind
	MsgErr(msg string, err ...error) Error // derives an error with a message wrapping causes
	Err(err ...error) Error                // keeps the message and attaches causes
	SetStatusCode(int) Error               // sets the HTTP status code for the error
	StatusCode() int                       // returns the HTTP status code, 0 when unset
	ErrorAll() string                      // returns the message followed by all causes
}

// Failure kinds. Every error produced by the client derives from one of these.
var (
	// ErrTransport means the request never produced an HTTP response.
	ErrTransport = New("transport failure")
	// ErrHTTPStatus means the server answered with a non-2xx status.
	ErrHTTPStatus = New("unexpected http status")
	// ErrMalformedResponse means a 2xx body did not have the expected shape.
	ErrMalformedResponse = New("malformed response")
	// ErrConfig reports an invalid or missing configuration value.
	ErrConfig = New("invalid configuration")
	// ErrValidation reports missing required input.
	ErrValidation = New("validation failed")
)
