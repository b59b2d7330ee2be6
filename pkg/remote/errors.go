// Package remote types the failures coming back from provider APIs so callers
// can tell "token is bad" from "transient, try later" from "permanently gone".
package remote

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

type Kind int

const (
	KindServer Kind = iota
	KindAuth
	KindForbidden
	KindNotFound
	KindRateLimited
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindValidation:
		return "validation"
	default:
		return "server"
	}
}

// Error is a typed remote failure. Op names the call that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err from a provider call. Timeouts and cancellations count
// as server errors: eligible for the next scheduled sync, never retried inline.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindServer, Op: op, Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		kind := KindServer
		switch apiErr.Code {
		case 400:
			kind = KindValidation
		case 401:
			kind = KindAuth
		case 403:
			kind = KindForbidden
		case 404, 410:
			kind = KindNotFound
		case 429:
			kind = KindRateLimited
		}
		return &Error{Kind: kind, Op: op, Err: err}
	}

	return &Error{Kind: KindServer, Op: op, Err: err}
}

// AuthError marks credentials that cannot be used or refreshed. Callers must
// surface a reconnect-required state, never retry automatically.
func AuthError(format string, args ...interface{}) error {
	return &Error{Kind: KindAuth, Op: "auth", Err: fmt.Errorf(format, args...)}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsAuth(err error) bool        { return IsKind(err, KindAuth) }
func IsNotFound(err error) bool    { return IsKind(err, KindNotFound) }
func IsRateLimited(err error) bool { return IsKind(err, KindRateLimited) }
