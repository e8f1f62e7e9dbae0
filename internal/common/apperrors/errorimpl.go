package apperrors

import (
	"errors"
	"strings"
)

type appError struct {
	msg    string
	kind   error   // error this one was derived from
	causes []error // underlying failures, reported by ErrorAll and matched by Is
	status int
}

func (e *appError) derive(msg string, causes []error, status int) *appError {
	return &appError{msg: msg, kind: e, causes: causes, status: status}
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the message followed by the message of every cause.
func (e *appError) ErrorAll() string {
	parts := []string{e.msg}
	for _, err := range e.causes {
		if err != nil {
			parts = append(parts, err.Error())
		}
	}
	return strings.Join(parts, ": ")
}

func (e *appError) Unwrap() error {
	return e.kind
}

func (e *appError) New(msg string) Error {
	return e.derive(msg, nil, e.status)
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return e.derive(msg, errs, e.status)
}

func (e *appError) Err(errs ...error) Error {
	return e.derive(e.msg, errs, e.status)
}

func (e *appError) SetStatusCode(code int) Error {
	return e.derive(e.msg, e.causes, code)
}

func (e *appError) StatusCode() int {
	return e.status
}

// Is matches the derivation chain and every attached cause.
func (e *appError) Is(target error) bool {
	switch {
	case target == nil:
		return false
	case e == target, errors.Is(e.kind, target):
		return true
	}
	for _, err := range e.causes {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root error kind with the given message.
func New(msg string) Error {
	return &appError{msg: msg}
}
