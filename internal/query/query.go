package query

// Query is the canonical query representation.
//
// Order-by clauses are ordered and append-only: later clauses have lower
// sort priority. The parameter table is shared by all clauses; clause
// builders merge their local tables into it when attaching a clause.
type Query struct {
	Source   string
	Bindings []string // named bound sources; index 0 is the primary source
	OrderBys []OrderByClause
	Params   ParamTable
}

// Queryable is anything convertible to the canonical query representation.
type Queryable interface {
	ToQuery() *Query
}

// ToQuery implements Queryable.
func (q *Query) ToQuery() *Query { return q }

// From creates a query over a single source, bound under its own name.
func From(source string) *Query {
	return &Query{Source: source, Bindings: []string{source}}
}

// AppendOrderBy returns a new query with the clause appended to the end
// of the order-by list and the clause's local parameters merged into the
// query's table. The receiver is left untouched; the caller owns
// replacing its query reference.
func (q *Query) AppendOrderBy(clause OrderByClause) *Query {
	out := q.clone()
	offset := out.Params.Merge(clause.Params)
	clause.Params = ParamTable{}
	out.OrderBys = append(out.OrderBys, shiftClause(clause, offset))
	return out
}

// shiftClause rebases a clause's parameter references by offset so they
// point into the merged table.
func shiftClause(clause OrderByClause, offset int) OrderByClause {
	if offset == 0 {
		return clause
	}
	items := make([]OrderByItem, len(clause.Items))
	for i, item := range clause.Items {
		if dp, ok := item.Dir.(DirParam); ok {
			item.Dir = DirParam{Index: dp.Index + offset}
		}
		if p, ok := item.Expr.(Param); ok {
			item.Expr = Param{Index: p.Index + offset}
		}
		items[i] = item
	}
	clause.Items = items
	return clause
}

func (q *Query) clone() *Query {
	out := &Query{
		Source:   q.Source,
		Bindings: make([]string, len(q.Bindings)),
		OrderBys: make([]OrderByClause, len(q.OrderBys)),
		Params:   q.Params.clone(),
	}
	copy(out.Bindings, q.Bindings)
	copy(out.OrderBys, q.OrderBys)
	return out
}
