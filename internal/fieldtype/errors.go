package fieldtype

import (
	"errors"
	"fmt"
)

// Op identifies which coercion operation produced an error.
type Op string

const (
	OpCast Op = "cast"
	OpDump Op = "dump"
	OpLoad Op = "load"
)

// CoerceError reports a value that does not conform to its declared type.
//
// Cast errors mean malformed external input and are typically attached to
// a user-facing field message by a validation layer. Dump and load errors
// mean a shape mismatch at the store boundary: an application bug on the
// way in, corruption or schema drift on the way out.
type CoerceError struct {
	Op    Op
	Type  Type
	Value any
}

// Error implements the error interface.
func (e *CoerceError) Error() string {
	if e.Op == OpCast {
		return fmt.Sprintf("cast: cannot coerce %v (%T) into type %s",
			e.Value, e.Value, TypeString(e.Type))
	}
	return fmt.Sprintf("%s: value %v (%T) does not match type %s",
		e.Op, e.Value, e.Value, TypeString(e.Type))
}

// IsCastError reports whether err is a cast failure.
// Uses errors.As to handle wrapped errors.
func IsCastError(err error) bool {
	var ce *CoerceError
	return errors.As(err, &ce) && ce.Op == OpCast
}

// IsMismatchError reports whether err is a dump- or load-layer shape
// mismatch. Uses errors.As to handle wrapped errors.
func IsMismatchError(err error) bool {
	var ce *CoerceError
	return errors.As(err, &ce) && (ce.Op == OpDump || ce.Op == OpLoad)
}

func newErr(op Op, t Type, value any) *CoerceError {
	return &CoerceError{Op: op, Type: t, Value: value}
}
