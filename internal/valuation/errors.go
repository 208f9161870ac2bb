package valuation

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse-grained categorization for engine errors.
type ErrorKind string

const (
	KindInvalidFeature ErrorKind = "invalid_feature"
	KindSchemaMismatch ErrorKind = "schema_mismatch"
	KindInference      ErrorKind = "inference"
	KindNotFound       ErrorKind = "not_found"
)

// Sentinel errors, one per kind. errors.Is(err, ErrNotFound) matches any OpError of that kind.
var (
	ErrInvalidFeature = &OpError{Kind: KindInvalidFeature}
	ErrSchemaMismatch = &OpError{Kind: KindSchemaMismatch}
	ErrInference      = &OpError{Kind: KindInference}
	ErrNotFound       = &OpError{Kind: KindNotFound}
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op    string
	Kind  ErrorKind
	Field string // Optional: offending feature name
	Err   error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := string(e.Kind)
	if e.Op != "" {
		base = fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%q)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another OpError with the same kind, so the sentinels work with errors.Is.
func (e *OpError) Is(target error) bool {
	t, ok := target.(*OpError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind helps callers classify errors without depending on engine internals.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

func invalidFeature(op, field string, format string, args ...any) error {
	return &OpError{Op: op, Kind: KindInvalidFeature, Field: field, Err: fmt.Errorf(format, args...)}
}
