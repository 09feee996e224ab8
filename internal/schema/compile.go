package schema

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/loamdb/loam/internal/fieldtype"
)

// CompileModel parses a CUE value into a Schema.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the model struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: user: { ... }`)
//	s, err := CompileModel(v.LookupPath(cue.ParsePath("model.user")))
func CompileModel(v cue.Value) (*Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &Schema{}

	// Model name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		s.Name = labels[len(labels)-1].String()
	}

	sourceVal := v.LookupPath(cue.ParsePath("source"))
	if !sourceVal.Exists() {
		return nil, &CompileError{
			Field:   "source",
			Message: "source is required",
			Pos:     v.Pos(),
		}
	}
	source, err := sourceVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Source = source

	s.Fields, err = parseFields(v)
	if err != nil {
		return nil, err
	}
	if len(s.Fields) == 0 {
		return nil, &CompileError{
			Field:   "fields",
			Message: "at least one field is required",
			Pos:     v.Pos(),
		}
	}

	pkVal := v.LookupPath(cue.ParsePath("primary_key"))
	if pkVal.Exists() {
		pk, err := pkVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !hasField(s.Fields, pk) {
			return nil, &CompileError{
				Field:   "primary_key",
				Message: fmt.Sprintf("primary key %q is not a declared field", pk),
				Pos:     pkVal.Pos(),
			}
		}
		s.PrimaryKey = pk
	}

	rawVal := v.LookupPath(cue.ParsePath("read_after_writes"))
	if rawVal.Exists() {
		iter, err := rawVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			name, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			if !hasField(s.Fields, name) {
				return nil, &CompileError{
					Field:   "read_after_writes",
					Message: fmt.Sprintf("%q is not a declared field", name),
					Pos:     rawVal.Pos(),
				}
			}
			s.ReadAfterWrites = append(s.ReadAfterWrites, name)
		}
	}

	return s, nil
}

// parseFields extracts field definitions in declaration order.
func parseFields(v cue.Value) ([]Field, error) {
	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, nil
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var fields []Field
	for iter.Next() {
		name := iter.Label()
		typeStr, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		t, perr := ParseType(typeStr)
		if perr != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("fields.%s", name),
				Message: perr.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		fields = append(fields, Field{Name: name, Type: t})
	}
	return fields, nil
}

// ParseType converts a declared type string into a runtime type.
// Array types use the "[]elem" form and may nest.
func ParseType(s string) (fieldtype.Type, error) {
	if elem, ok := strings.CutPrefix(s, "[]"); ok {
		inner, err := ParseType(elem)
		if err != nil {
			return nil, err
		}
		return fieldtype.Array{Elem: inner}, nil
	}
	k := fieldtype.Kind(s)
	if !fieldtype.IsPrimitive(k) {
		return nil, fmt.Errorf("unknown type %q", s)
	}
	return k, nil
}

func hasField(fields []Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// CompileError represents a schema compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
