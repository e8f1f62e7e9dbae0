package httpx

import "net/http"

// StatusRecorder wraps an http.ResponseWriter and remembers the status and
// the number of body bytes sent, for logging and panic recovery.
type StatusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

// NewStatusRecorder wraps w. A writer that already is a StatusRecorder is
// returned as is so stacked middleware share one record.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	if rec, ok := w.(*StatusRecorder); ok {
		return rec
	}
	return &StatusRecorder{ResponseWriter: w}
}

// WriteHeader forwards only the first status.
func (rec *StatusRecorder) WriteHeader(code int) {
	if rec.status != 0 {
		return
	}
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *StatusRecorder) Write(b []byte) (int, error) {
	rec.WriteHeader(http.StatusOK)
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// Started reports whether the status line has been sent.
func (rec *StatusRecorder) Started() bool {
	return rec.status != 0
}

// Status returns the sent status, http.StatusOK if none yet.
func (rec *StatusRecorder) Status() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

// BytesWritten returns the size of the body sent so far.
func (rec *StatusRecorder) BytesWritten() int {
	return rec.bytes
}
