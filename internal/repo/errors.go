package repo

import (
	"errors"
	"fmt"

	"github.com/loamdb/loam/internal/fieldtype"
)

// FieldError is a coercion failure on a named field of a model. It
// names the model, the field and its declared type so the caller can
// see exactly which value did not fit.
type FieldError struct {
	Model string
	Field string
	Type  fieldtype.Type
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s (%s): %v", e.Model, e.Field, fieldtype.TypeString(e.Type), e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// UnknownModelError indicates an operation against a model name with no
// compiled schema.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Model)
}

// UnknownFieldError indicates a change set naming a field the model
// does not declare.
type UnknownFieldError struct {
	Model string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("model %q has no field %q", e.Model, e.Field)
}

// IsFieldError reports whether err is a coercion failure on a field.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}
