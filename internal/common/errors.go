package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the caller facing class of a failure.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindNotAParticipant  ErrorKind = "not_a_participant"
	KindInvalidContext   ErrorKind = "invalid_context"
	KindStoreUnavailable ErrorKind = "store_unavailable"
)

// Sentinels for errors.Is. Matching is by kind only.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrNotAParticipant  = &Error{Kind: KindNotAParticipant}
	ErrInvalidContext   = &Error{Kind: KindInvalidContext}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
)

type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Msg != "" {
		msg = e.Msg
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func NotFound(op, format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func NotAParticipant(op, format string, args ...interface{}) error {
	return &Error{Kind: KindNotAParticipant, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func InvalidContext(op, format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidContext, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func StoreUnavailable(op string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Op: op, Msg: "store unavailable", Err: err}
}

// KindOf returns the kind of err, or "" when err is not one of ours.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether retrying the same call may succeed.
func IsRetryable(err error) bool {
	return KindOf(err) == KindStoreUnavailable
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindNotAParticipant:
		return http.StatusForbidden
	case KindInvalidContext:
		return http.StatusBadRequest
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
