package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// FieldValue is one column/value pair in a write filter or change set.
type FieldValue struct {
	Name  string
	Value any
}

// Row holds read-back column values from a write, keyed by column name.
type Row map[string]any

// StaleError indicates an update or delete that matched no rows.
type StaleError struct {
	Op     string
	Source string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("%s on %s matched no rows", e.Op, e.Source)
}

// dbtx is satisfied by both *sql.DB and *sql.Tx, so the write operations
// run identically inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Insert inserts one row into source. Column order is sorted by name so
// the generated statement is deterministic for a given change set.
// Columns named in returning are read back from the inserted row.
func (s *Store) Insert(ctx context.Context, source string, fields map[string]any, returning []string) (Row, error) {
	return insert(ctx, s.db, source, fields, returning)
}

// Insert is Store.Insert inside the transaction.
func (t *Tx) Insert(ctx context.Context, source string, fields map[string]any, returning []string) (Row, error) {
	return insert(ctx, t.tx, source, fields, returning)
}

// Update updates the rows of source matched by filters. Returns
// StaleError when no row matched. Columns named in returning are read
// back from the updated row.
func (s *Store) Update(ctx context.Context, source string, fields map[string]any, filters []FieldValue, returning []string) (Row, error) {
	return update(ctx, s.db, source, fields, filters, returning)
}

// Update is Store.Update inside the transaction.
func (t *Tx) Update(ctx context.Context, source string, fields map[string]any, filters []FieldValue, returning []string) (Row, error) {
	return update(ctx, t.tx, source, fields, filters, returning)
}

// Delete deletes the rows of source matched by filters. Returns
// StaleError when no row matched.
func (s *Store) Delete(ctx context.Context, source string, filters []FieldValue) error {
	return del(ctx, s.db, source, filters)
}

// Delete is Store.Delete inside the transaction.
func (t *Tx) Delete(ctx context.Context, source string, filters []FieldValue) error {
	return del(ctx, t.tx, source, filters)
}

func insert(ctx context.Context, db dbtx, source string, fields map[string]any, returning []string) (Row, error) {
	cols, args := sortedColumns(fields)

	var b strings.Builder
	if len(cols) == 0 {
		fmt.Fprintf(&b, "INSERT INTO %s DEFAULT VALUES", quoteIdent(source))
	} else {
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
			quoteIdent(source), joinIdents(cols), placeholders(len(cols)))
	}

	if len(returning) == 0 {
		if _, err := db.ExecContext(ctx, b.String(), args...); err != nil {
			return nil, fmt.Errorf("insert into %s: %w", source, err)
		}
		return Row{}, nil
	}

	fmt.Fprintf(&b, " RETURNING %s", joinIdents(returning))
	row, err := queryOneRow(ctx, db, b.String(), args, returning)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", source, err)
	}
	if row == nil {
		return nil, fmt.Errorf("insert into %s: no row returned", source)
	}
	return row, nil
}

func update(ctx context.Context, db dbtx, source string, fields map[string]any, filters []FieldValue, returning []string) (Row, error) {
	cols, args := sortedColumns(fields)

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET ", quoteIdent(source))
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = ?", quoteIdent(col))
	}
	args = appendWhere(&b, args, filters)

	if len(returning) == 0 {
		res, err := db.ExecContext(ctx, b.String(), args...)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", source, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", source, err)
		}
		if n == 0 {
			return nil, &StaleError{Op: "update", Source: source}
		}
		return Row{}, nil
	}

	fmt.Fprintf(&b, " RETURNING %s", joinIdents(returning))
	row, err := queryOneRow(ctx, db, b.String(), args, returning)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", source, err)
	}
	if row == nil {
		return nil, &StaleError{Op: "update", Source: source}
	}
	return row, nil
}

func del(ctx context.Context, db dbtx, source string, filters []FieldValue) error {
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", quoteIdent(source))
	args := appendWhere(&b, nil, filters)

	res, err := db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", source, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", source, err)
	}
	if n == 0 {
		return &StaleError{Op: "delete", Source: source}
	}
	return nil
}

// queryOneRow runs a statement with a RETURNING clause and scans the
// single resulting row. Returns nil with no error when nothing matched.
func queryOneRow(ctx context.Context, db dbtx, query string, args []any, returning []string) (Row, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	dest := make([]any, len(returning))
	ptrs := make([]any, len(returning))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	out := make(Row, len(returning))
	for i, col := range returning {
		out[col] = dest[i]
	}
	return out, rows.Err()
}

func sortedColumns(fields map[string]any) ([]string, []any) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = fields[col]
	}
	return cols, args
}

func appendWhere(b *strings.Builder, args []any, filters []FieldValue) []any {
	for i, f := range filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		if f.Value == nil {
			fmt.Fprintf(b, "%s IS NULL", quoteIdent(f.Name))
			continue
		}
		fmt.Fprintf(b, "%s = ?", quoteIdent(f.Name))
		args = append(args, f.Value)
	}
	return args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func joinIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
// Identifiers come from compiled schemas, but quoting keeps reserved
// words and unusual names safe.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
