package orderby

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/loamdb/loam/internal/query"
)

// Term is a caller-facing order-by expression.
//
// This is a sealed interface - only Col, Lit and Deferred implement it.
type Term interface {
	termNode() // Marker method - seals interface to this package
}

// Col references a field of a bound source. An empty Source means the
// query's primary source.
type Col struct {
	Source string
	Name   string
}

func (Col) termNode() {}

// Lit is a literal value. It never appears in the built clause directly;
// escaping moves it into the parameter table and references it through a
// placeholder, so raw values cannot be interpolated into the eventual
// store command.
type Lit struct {
	Value any
}

func (Lit) termNode() {}

// Deferred is a value only known when the query executes.
type Deferred struct {
	Resolve func() (any, error)
}

func (Deferred) termNode() {}

// Clause is one order-by clause: a direction specification plus a term.
// Construct clauses with By, Ascending, Descending, WithDirection or
// DeferredDirection.
type Clause struct {
	dir      query.Direction
	deferred func() (any, error) // non-nil means late-bound direction
	term     Term
}

// By builds a clause with the implicit ascending direction.
func By(term Term) Clause {
	return Clause{dir: query.Asc, term: term}
}

// Ascending builds an explicitly ascending clause.
func Ascending(term Term) Clause {
	return Clause{dir: query.Asc, term: term}
}

// Descending builds a descending clause.
func Descending(term Term) Clause {
	return Clause{dir: query.Desc, term: term}
}

// WithDirection builds a clause with a direction literal. The literal is
// validated during escaping; anything outside asc/desc aborts query
// construction.
func WithDirection(dir query.Direction, term Term) Clause {
	return Clause{dir: dir, term: term}
}

// DeferredDirection builds a clause whose direction is only known when
// the query executes. A validation thunk is installed so the resolved
// value must be asc or desc; anything else aborts query execution before
// any store interaction.
func DeferredDirection(resolve func() (any, error), term Term) Clause {
	return Clause{deferred: resolve, term: term}
}

// FieldChecker reports whether a field exists in schema metadata.
// Satisfied by *schema.Schema.
type FieldChecker interface {
	HasField(name string) bool
}

// Escape validates and normalizes clauses into direction/expression
// pairs, accumulating literal and late-bound values into a fresh
// parameter table.
func Escape(clauses []Clause, boundVars []string) ([]query.OrderByItem, query.ParamTable, error) {
	return escape(clauses, boundVars, nil)
}

func escape(clauses []Clause, boundVars []string, fields FieldChecker) ([]query.OrderByItem, query.ParamTable, error) {
	var params query.ParamTable
	items := make([]query.OrderByItem, 0, len(clauses))

	for _, clause := range clauses {
		dir, err := escapeDir(clause, &params)
		if err != nil {
			return nil, query.ParamTable{}, err
		}
		expr, err := escapeTerm(clause.term, boundVars, fields, &params)
		if err != nil {
			return nil, query.ParamTable{}, err
		}
		items = append(items, query.OrderByItem{Dir: dir, Expr: expr})
	}

	return items, params, nil
}

func escapeDir(clause Clause, params *query.ParamTable) (query.DirTerm, error) {
	if clause.deferred != nil {
		idx := params.AddDeferred(directionThunk(clause.deferred))
		return query.DirParam{Index: idx}, nil
	}
	if !clause.dir.Valid() {
		return nil, &ClauseError{
			Code:    ErrCodeInvalidDirection,
			Message: fmt.Sprintf("expected asc or desc, got %s", clause.dir),
		}
	}
	return clause.dir, nil
}

func escapeTerm(term Term, boundVars []string, fields FieldChecker, params *query.ParamTable) (query.Expr, error) {
	switch t := term.(type) {
	case Col:
		binding, err := resolveBinding(t.Source, boundVars)
		if err != nil {
			return nil, err
		}
		if fields != nil && !fields.HasField(t.Name) {
			return nil, &ClauseError{
				Code:    ErrCodeUnknownField,
				Message: fmt.Sprintf("field %q does not exist in schema metadata", t.Name),
			}
		}
		return query.Field{Binding: binding, Name: t.Name}, nil
	case Lit:
		idx := params.AddValue(t.Value)
		return query.Param{Index: idx}, nil
	case Deferred:
		idx := params.AddDeferred(t.Resolve)
		return query.Param{Index: idx}, nil
	default:
		return nil, &ClauseError{
			Code:    ErrCodeUnknownField,
			Message: fmt.Sprintf("unsupported order-by term: %T", term),
		}
	}
}

func resolveBinding(source string, boundVars []string) (int, error) {
	if source == "" {
		return 0, nil
	}
	for i, name := range boundVars {
		if name == source {
			return i, nil
		}
	}
	return 0, &ClauseError{
		Code:    ErrCodeUnknownBinding,
		Message: fmt.Sprintf("source %q is not bound in this query (have %v)", source, boundVars),
	}
}

// directionThunk wraps a late-bound direction resolver with the
// resolution-time validation check.
func directionThunk(resolve func() (any, error)) func() (any, error) {
	return func() (any, error) {
		v, err := resolve()
		if err != nil {
			return nil, err
		}
		d, ok := asDirection(v)
		if !ok {
			return nil, &ClauseError{
				Code:    ErrCodeDeferredInvalid,
				Message: fmt.Sprintf("deferred direction resolved to %v (%T), expected asc or desc", v, v),
			}
		}
		return d, nil
	}
}

func asDirection(v any) (query.Direction, bool) {
	switch d := v.(type) {
	case query.Direction:
		return d, d.Valid()
	case string:
		switch d {
		case "asc":
			return query.Asc, true
		case "desc":
			return query.Desc, true
		}
	}
	return 0, false
}

// Build normalizes the binding list (defaulting to the query's own
// bindings), escapes the clauses, finalizes their parameters into the
// clause's positional table, tags the clause with the caller's source
// location, and appends it to the query.
func Build(q query.Queryable, bindings []string, clauses ...Clause) (*query.Query, error) {
	return build(q, bindings, nil, clauses)
}

// BuildChecked is Build with schema metadata: referencing a field absent
// from the schema is a hard construction-time fault.
func BuildChecked(q query.Queryable, bindings []string, fields FieldChecker, clauses ...Clause) (*query.Query, error) {
	return build(q, bindings, fields, clauses)
}

func build(q query.Queryable, bindings []string, fields FieldChecker, clauses []Clause) (*query.Query, error) {
	_, file, line, _ := runtime.Caller(2)

	base := q.ToQuery()
	if len(bindings) == 0 {
		bindings = base.Bindings
	}

	items, params, err := escape(clauses, bindings, fields)
	if err != nil {
		var ce *ClauseError
		if errors.As(err, &ce) && ce.File == "" {
			ce.File, ce.Line = file, line
		}
		return nil, err
	}

	clause := query.OrderByClause{Items: items, Params: params, File: file, Line: line}
	return Apply(base, clause), nil
}

// Apply appends an escaped clause onto the query's order-by list. It is
// a pure transformation: the input query is untouched and the caller
// owns replacing its reference with the returned value.
func Apply(q query.Queryable, clause query.OrderByClause) *query.Query {
	return q.ToQuery().AppendOrderBy(clause)
}
