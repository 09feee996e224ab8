package schema

import (
	"github.com/loamdb/loam/internal/fieldtype"
)

// Field is one named, typed field of a model.
type Field struct {
	Name string
	Type fieldtype.Type
}

// Schema describes a model: its backing source and its typed fields.
// Field order follows declaration order and is stable.
type Schema struct {
	Name            string
	Source          string
	Fields          []Field
	PrimaryKey      string
	ReadAfterWrites []string
}

// Record is one row of a model, keyed by field name. Values are in
// runtime representation (loaded, not dumped).
type Record map[string]any

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// TypeOf returns the type of the named field.
func (s *Schema) TypeOf(name string) (fieldtype.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// HasField reports whether the model declares the named field.
func (s *Schema) HasField(name string) bool {
	_, ok := s.TypeOf(name)
	return ok
}

// Rehydrate pairs returned column values with their names into a Record.
// Columns absent from the schema are kept verbatim; the caller decides
// whether that is acceptable.
func (s *Schema) Rehydrate(columns []string, values []any) Record {
	rec := make(Record, len(columns))
	for i, col := range columns {
		if i < len(values) {
			rec[col] = values[i]
		}
	}
	return rec
}
