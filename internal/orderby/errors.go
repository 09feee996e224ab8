package orderby

import (
	"errors"
	"fmt"
)

// ClauseErrorCode categorizes clause construction and resolution errors.
type ClauseErrorCode string

const (
	// ErrCodeInvalidDirection indicates a direction literal outside asc/desc.
	// Detected at definition time; query construction aborts.
	ErrCodeInvalidDirection ClauseErrorCode = "INVALID_DIRECTION"

	// ErrCodeUnknownBinding indicates a field reference into a source that
	// is not among the query's bound sources.
	ErrCodeUnknownBinding ClauseErrorCode = "UNKNOWN_BINDING"

	// ErrCodeUnknownField indicates a field absent from schema metadata.
	ErrCodeUnknownField ClauseErrorCode = "UNKNOWN_FIELD"

	// ErrCodeDeferredInvalid indicates a late-bound value that failed its
	// resolution-time check. Detected at execution time, before any store
	// interaction.
	ErrCodeDeferredInvalid ClauseErrorCode = "DEFERRED_INVALID"
)

// ClauseError is an order-by construction or resolution error. File and
// Line point at the call site that built the clause, when known.
type ClauseError struct {
	Code    ClauseErrorCode
	Message string
	File    string
	Line    int
}

// Error implements the error interface.
func (e *ClauseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDefinitionError reports whether err was detected while the clause was
// being constructed. Uses errors.As to handle wrapped errors.
func IsDefinitionError(err error) bool {
	var ce *ClauseError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code != ErrCodeDeferredInvalid
}

// IsDeferredError reports whether err comes from a late-bound value that
// failed validation at resolution time.
func IsDeferredError(err error) bool {
	var ce *ClauseError
	return errors.As(err, &ce) && ce.Code == ErrCodeDeferredInvalid
}
