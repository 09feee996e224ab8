package query

import "fmt"

// Direction is the sort direction of an order-by item.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Valid reports whether d is one of the two closed enum values.
// Direction is an open integer type at runtime, so builders must check.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// DirTerm is the direction slot of an order-by item: a literal Direction
// resolved at build time, or a DirParam resolved when the query runs.
//
// This is a sealed interface - only Direction and DirParam implement it.
type DirTerm interface {
	dirTerm() // Marker method - seals interface to this package
}

func (Direction) dirTerm() {}

// DirParam is a deferred direction: the actual value lives in the
// parameter table and is validated at resolve time.
type DirParam struct {
	Index int
}

func (DirParam) dirTerm() {}

// Expr is an escaped order-by expression.
//
// This is a sealed interface - only Field and Param implement it.
// Raw values never appear here; literals are accumulated into the
// parameter table and referenced through Param placeholders.
type Expr interface {
	orderExpr() // Marker method - seals interface to this package
}

// Field references a field of one of the query's bound sources.
type Field struct {
	Binding int // index into Query.Bindings
	Name    string
}

func (Field) orderExpr() {}

// Param references a slot in the query's parameter table.
type Param struct {
	Index int
}

func (Param) orderExpr() {}

// OrderByItem pairs a direction term with an escaped expression.
type OrderByItem struct {
	Dir  DirTerm
	Expr Expr
}

// OrderByClause is one escaped order-by clause, tagged with the source
// location of the call site that built it. Params is the clause's local
// parameter table; appending the clause to a query merges it into the
// query's table and rebases the parameter references.
type OrderByClause struct {
	Items  []OrderByItem
	Params ParamTable
	File   string
	Line   int
}
