package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loamdb/loam/internal/fieldtype"
	"github.com/loamdb/loam/internal/schema"
	"github.com/loamdb/loam/internal/store"
)

// writer is the subset of the storage adapter the repo writes through.
// Satisfied by both *store.Store and *store.Tx.
type writer interface {
	Insert(ctx context.Context, source string, fields map[string]any, returning []string) (store.Row, error)
	Update(ctx context.Context, source string, fields map[string]any, filters []store.FieldValue, returning []string) (store.Row, error)
	Delete(ctx context.Context, source string, filters []store.FieldValue) error
}

// Repo executes model writes against a store.
type Repo struct {
	st      *store.Store
	w       writer
	schemas map[string]*schema.Schema
}

// New creates a Repo over st for the given schemas.
func New(st *store.Store, schemas []schema.Schema) *Repo {
	byName := make(map[string]*schema.Schema, len(schemas))
	for i := range schemas {
		byName[schemas[i].Name] = &schemas[i]
	}
	return &Repo{st: st, w: st, schemas: byName}
}

// Schema returns the compiled schema for a model name.
func (r *Repo) Schema(model string) (*schema.Schema, bool) {
	s, ok := r.schemas[model]
	return s, ok
}

// Insert writes one record of the named model. Every change is dumped
// to its store-native form; a value that does not fit its declared type
// aborts the write with a FieldError before the store is touched.
//
// A uuid primary key absent from the change set is generated here, not
// by the store. Store-generated columns listed in the schema's
// read_after_writes are read back and loaded into the returned record.
func (r *Repo) Insert(ctx context.Context, model string, changes map[string]any) (schema.Record, error) {
	s, ok := r.schemas[model]
	if !ok {
		return nil, &UnknownModelError{Model: model}
	}

	changes = withGeneratedPK(s, changes)
	dumped, err := r.dumpChanges(s, changes)
	if err != nil {
		return nil, err
	}

	row, err := r.w.Insert(ctx, s.Source, dumped, readBackColumns(s))
	if err != nil {
		return nil, err
	}

	return r.assembleRecord(s, changes, row)
}

// Update updates the record of the named model identified by its
// primary key. Both the changes and the key are dumped before the store
// sees them.
func (r *Repo) Update(ctx context.Context, model string, pk any, changes map[string]any) (schema.Record, error) {
	s, ok := r.schemas[model]
	if !ok {
		return nil, &UnknownModelError{Model: model}
	}

	dumped, err := r.dumpChanges(s, changes)
	if err != nil {
		return nil, err
	}
	filter, err := r.pkFilter(s, model, pk)
	if err != nil {
		return nil, err
	}

	row, err := r.w.Update(ctx, s.Source, dumped, []store.FieldValue{filter}, readBackColumns(s))
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		merged[k] = v
	}
	merged[s.PrimaryKey] = pk
	return r.assembleRecord(s, merged, row)
}

// Delete removes the record of the named model identified by its
// primary key.
func (r *Repo) Delete(ctx context.Context, model string, pk any) error {
	s, ok := r.schemas[model]
	if !ok {
		return &UnknownModelError{Model: model}
	}

	filter, err := r.pkFilter(s, model, pk)
	if err != nil {
		return err
	}
	return r.w.Delete(ctx, s.Source, []store.FieldValue{filter})
}

// Transaction runs fn with a Repo whose writes go through a single
// database transaction. An error from fn rolls everything back.
func (r *Repo) Transaction(ctx context.Context, fn func(txr *Repo) error) error {
	return r.st.Transaction(ctx, func(tx *store.Tx) error {
		return fn(&Repo{st: r.st, w: tx, schemas: r.schemas})
	})
}

// dumpChanges converts a runtime change set to store-native form,
// failing on the first field whose value does not match its type.
func (r *Repo) dumpChanges(s *schema.Schema, changes map[string]any) (map[string]any, error) {
	dumped := make(map[string]any, len(changes))
	for name, value := range changes {
		t, ok := s.TypeOf(name)
		if !ok {
			return nil, &UnknownFieldError{Model: s.Name, Field: name}
		}
		dv, err := fieldtype.Dump(t, value)
		if err != nil {
			return nil, &FieldError{Model: s.Name, Field: name, Type: t, Err: err}
		}
		dumped[name] = dv
	}
	return dumped, nil
}

// assembleRecord merges the caller's changes with loaded read-back
// columns into the resulting record.
func (r *Repo) assembleRecord(s *schema.Schema, changes map[string]any, row store.Row) (schema.Record, error) {
	rec := make(schema.Record, len(changes)+len(row))
	for name, value := range changes {
		rec[name] = value
	}
	for name, value := range row {
		t, ok := s.TypeOf(name)
		if !ok {
			rec[name] = value
			continue
		}
		lv, err := fieldtype.Load(t, value)
		if err != nil {
			return nil, &FieldError{Model: s.Name, Field: name, Type: t, Err: err}
		}
		rec[name] = lv
	}
	return rec, nil
}

func (r *Repo) pkFilter(s *schema.Schema, model string, pk any) (store.FieldValue, error) {
	if s.PrimaryKey == "" {
		return store.FieldValue{}, fmt.Errorf("model %q declares no primary key", model)
	}
	t, ok := s.TypeOf(s.PrimaryKey)
	if !ok {
		return store.FieldValue{}, &UnknownFieldError{Model: model, Field: s.PrimaryKey}
	}
	dv, err := fieldtype.Dump(t, pk)
	if err != nil {
		return store.FieldValue{}, &FieldError{Model: model, Field: s.PrimaryKey, Type: t, Err: err}
	}
	return store.FieldValue{Name: s.PrimaryKey, Value: dv}, nil
}

// withGeneratedPK fills in a fresh uuid for an absent uuid primary key.
func withGeneratedPK(s *schema.Schema, changes map[string]any) map[string]any {
	if s.PrimaryKey == "" {
		return changes
	}
	if _, present := changes[s.PrimaryKey]; present {
		return changes
	}
	t, ok := s.TypeOf(s.PrimaryKey)
	if !ok || t != fieldtype.KindUUID {
		return changes
	}

	out := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		out[k] = v
	}
	out[s.PrimaryKey] = uuid.NewString()
	return out
}

// readBackColumns lists the columns read back after a write: the
// primary key plus the schema's read_after_writes, deduplicated.
func readBackColumns(s *schema.Schema) []string {
	cols := make([]string, 0, len(s.ReadAfterWrites)+1)
	seen := make(map[string]bool, len(s.ReadAfterWrites)+1)
	if s.PrimaryKey != "" {
		cols = append(cols, s.PrimaryKey)
		seen[s.PrimaryKey] = true
	}
	for _, name := range s.ReadAfterWrites {
		if !seen[name] {
			cols = append(cols, name)
			seen[name] = true
		}
	}
	return cols
}
