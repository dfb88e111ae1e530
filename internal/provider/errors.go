package provider

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired       = errors.New("amadeus authentication failed")
	ErrRateLimited        = errors.New("amadeus rate limited")
	ErrServiceUnavailable = errors.New("amadeus service unavailable")
	ErrHTTPStatus         = errors.New("amadeus http error")
	ErrConnection         = errors.New("amadeus connection error")
	ErrTimedOut           = errors.New("amadeus search timed out")
)

type ErrorKind string

const (
	KindAuth               ErrorKind = "auth"
	KindRateLimited        ErrorKind = "rate_limited"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindHTTP               ErrorKind = "http"
	KindConnection         ErrorKind = "connection"
	KindTimedOut           ErrorKind = "timed_out"
)

// Error is the classified failure returned by the Amadeus client. Body holds
// the raw upstream payload for logs only.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.sentinel().Error()
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s: HTTP %d", msg, e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e != nil && target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindAuth:
		return ErrAuthRequired
	case KindRateLimited:
		return ErrRateLimited
	case KindServiceUnavailable:
		return ErrServiceUnavailable
	case KindConnection:
		return ErrConnection
	case KindTimedOut:
		return ErrTimedOut
	default:
		return ErrHTTPStatus
	}
}

// KindOf reports the classification of err, or "" when err did not come
// from this package.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func classifyStatus(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Body: string(body), Detail: summarizeBody(body)}
	switch {
	case status == 401:
		e.Kind = KindAuth
	case status == 429:
		e.Kind = KindRateLimited
	case status >= 500:
		e.Kind = KindServiceUnavailable
	default:
		e.Kind = KindHTTP
	}
	return e
}
