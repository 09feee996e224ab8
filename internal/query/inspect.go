package query

import (
	"fmt"
	"strings"
)

// Inspect renders the query for diagnostics and golden tests.
//
// Field references render as "binding.name"; parameter placeholders and
// deferred directions render as "^index". The rendering is stable for a
// given query value.
func (q *Query) Inspect() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#Query<from: %s", q.Source)

	for _, clause := range q.OrderBys {
		b.WriteString(", order_by: [")
		for i, item := range clause.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(q.inspectDir(item.Dir))
			b.WriteString(": ")
			b.WriteString(q.inspectExpr(item.Expr))
		}
		b.WriteString("]")
	}

	fmt.Fprintf(&b, ", params: %d>", q.Params.Len())
	return b.String()
}

func (q *Query) inspectDir(d DirTerm) string {
	switch dt := d.(type) {
	case Direction:
		return dt.String()
	case DirParam:
		return fmt.Sprintf("^%d", dt.Index)
	default:
		return fmt.Sprintf("%T", d)
	}
}

func (q *Query) inspectExpr(e Expr) string {
	switch ex := e.(type) {
	case Field:
		if ex.Binding >= 0 && ex.Binding < len(q.Bindings) {
			return fmt.Sprintf("%s.%s", q.Bindings[ex.Binding], ex.Name)
		}
		return fmt.Sprintf("%d.%s", ex.Binding, ex.Name)
	case Param:
		return fmt.Sprintf("^%d", ex.Index)
	default:
		return fmt.Sprintf("%T", e)
	}
}
