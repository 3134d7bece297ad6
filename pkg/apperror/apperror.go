package apperror

import "errors"

// Kind classifies a failure so callers can react without matching on
// individual sentinel errors.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindUnauthorized
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindUnauthorized:
		return "unauthorized"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a classified error. Usecase packages declare sentinel values built
// from the constructors below, so both errors.Is and KindOf work on results.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Kind() Kind {
	return e.kind
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func Validation(msg string) *Error   { return New(KindValidation, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Duplicate(msg string) *Error    { return New(KindDuplicate, msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func Persistence(msg string) *Error  { return New(KindPersistence, msg) }

// KindOf returns the classification of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
