// Package errs defines the closed set of failure kinds a generate run can end with.
//
// Every error that leaves the core is an *Error carrying one Kind, so callers
// branch on the category with KindOf instead of matching message text.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration covers invalid settings and unusable source/destination paths.
	KindConfiguration
	// KindDimension is returned when the source does not tile into whole chunks.
	KindDimension
	// KindProcessing covers rasterize, decode and encode failures mid-pipeline.
	KindProcessing
	// KindResource covers workspace creation/removal and output locking.
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindDimension:
		return "dimension error"
	case KindProcessing:
		return "processing error"
	case KindResource:
		return "resource error"
	default:
		return "unknown error"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

func newErr(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	// keep the innermost kind, a processing failure stays a processing failure
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Config(op string, err error) error     { return newErr(KindConfiguration, op, err) }
func Dimension(op string, err error) error  { return newErr(KindDimension, op, err) }
func Processing(op string, err error) error { return newErr(KindProcessing, op, err) }
func Resource(op string, err error) error   { return newErr(KindResource, op, err) }

func Configf(op, format string, args ...any) error {
	return Config(op, fmt.Errorf(format, args...))
}

func Dimensionf(op, format string, args ...any) error {
	return Dimension(op, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
