// Package engineerr defines the error taxonomy from spec.md §7. Callers
// use errors.Is/errors.As against the sentinel Kind values rather than
// matching message strings.
package engineerr

import (
	"errors"
	"fmt"
)

// Kind is one of the six error categories the engine ever produces.
type Kind int

const (
	KindIllegalAction Kind = iota
	KindInvalidTarget
	KindInsufficientResources
	KindInvalidChoice
	KindEngineInvariant
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindIllegalAction:
		return "IllegalAction"
	case KindInvalidTarget:
		return "InvalidTarget"
	case KindInsufficientResources:
		return "InsufficientResources"
	case KindInvalidChoice:
		return "InvalidChoice"
	case KindEngineInvariant:
		return "EngineInvariant"
	case KindNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Error is the concrete type returned by engine operations. Fatal reports
// whether the error is an EngineInvariant violation (the only kind that is
// never recovered locally; spec.md §7).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether this error must abort the game (EngineInvariant).
func (e *Error) Fatal() bool {
	return e.Kind == KindEngineInvariant
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IllegalAction reports a timing/priority/zone/ownership violation.
func IllegalAction(format string, args ...any) *Error {
	return newErr(KindIllegalAction, format, args...)
}

// InvalidTarget reports a target that is no longer legal at resolution.
func InvalidTarget(format string, args ...any) *Error {
	return newErr(KindInvalidTarget, format, args...)
}

// InsufficientResources reports an unpayable cost.
func InsufficientResources(format string, args ...any) *Error {
	return newErr(KindInsufficientResources, format, args...)
}

// InvalidChoice reports a resolveChoice call that failed validation.
func InvalidChoice(format string, args ...any) *Error {
	return newErr(KindInvalidChoice, format, args...)
}

// EngineInvariant reports a fatal internal-consistency violation (SBA loop
// cap exceeded, dangling card reference, etc.). Never swallowed.
func EngineInvariant(format string, args ...any) *Error {
	return newErr(KindEngineInvariant, format, args...)
}

// NotFound reports a missing instance/player id.
func NotFound(format string, args ...any) *Error {
	return newErr(KindNotFound, format, args...)
}

// Wrap attaches an underlying error to a new typed error of the given kind.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	e := newErr(kind, format, args...)
	e.Err = err
	return e
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
