package access

import (
	"errors"
	"fmt"
	"time"
)

// Kind discriminates access engine failures so callers can branch on them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
	KindExhausted
	KindRateLimited
	KindCategoryIsPrivate
	KindSelfOwned
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindExhausted:
		return "exhausted"
	case KindRateLimited:
		return "rate_limited"
	case KindCategoryIsPrivate:
		return "category_is_private"
	case KindSelfOwned:
		return "self_owned"
	default:
		return "unknown"
	}
}

// Error is returned by every Engine operation that fails for a domain reason.
type Error struct {
	Kind       Kind
	Msg        string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s (retry after %s)", msg, e.RetryAfter)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the exported sentinels can be
// used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidCode             = &Error{Kind: KindValidation, Msg: "malformed share code"}
	ErrInvalidSharingType      = &Error{Kind: KindValidation, Msg: "unknown sharing type"}
	ErrCodeNotFound            = &Error{Kind: KindNotFound, Msg: "share code not found"}
	ErrForbidden               = &Error{Kind: KindForbidden, Msg: "access denied"}
	ErrCodeGenerationExhausted = &Error{Kind: KindExhausted, Msg: "share code generation exhausted"}
	ErrRateLimited             = &Error{Kind: KindRateLimited, Msg: "too many failed attempts"}
	ErrCategoryIsPrivate       = &Error{Kind: KindCategoryIsPrivate, Msg: "category is private"}
	ErrSelfOwned               = &Error{Kind: KindSelfOwned, Msg: "category belongs to the caller"}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// RetryAfter returns the block duration carried by a rate-limit error.
func RetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
