package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendOrderBy_AppendsNotReplaces(t *testing.T) {
	q := From("users")

	first := OrderByClause{Items: []OrderByItem{{Dir: Asc, Expr: Field{Binding: 0, Name: "name"}}}}
	second := OrderByClause{Items: []OrderByItem{{Dir: Desc, Expr: Field{Binding: 0, Name: "age"}}}}

	q1 := q.AppendOrderBy(first)
	q2 := q1.AppendOrderBy(second)

	assert.Empty(t, q.OrderBys, "original query untouched")
	assert.Len(t, q1.OrderBys, 1)
	require.Len(t, q2.OrderBys, 2)
	assert.Equal(t, Asc, q2.OrderBys[0].Items[0].Dir)
	assert.Equal(t, Desc, q2.OrderBys[1].Items[0].Dir)
}

func TestAppendOrderBy_RebasesParamReferences(t *testing.T) {
	q := From("events")

	var p1 ParamTable
	i1 := p1.AddValue(13)
	first := OrderByClause{
		Items:  []OrderByItem{{Dir: Desc, Expr: Param{Index: i1}}},
		Params: p1,
	}

	var p2 ParamTable
	i2 := p2.AddValue(99)
	d2 := p2.AddDeferred(func() (any, error) { return Asc, nil })
	second := OrderByClause{
		Items: []OrderByItem{
			{Dir: DirParam{Index: d2}, Expr: Param{Index: i2}},
		},
		Params: p2,
	}

	out := q.AppendOrderBy(first).AppendOrderBy(second)

	require.Equal(t, 3, out.Params.Len())
	assert.Equal(t, Param{Index: 0}, out.OrderBys[0].Items[0].Expr)
	assert.Equal(t, Param{Index: 1}, out.OrderBys[1].Items[0].Expr)
	assert.Equal(t, DirParam{Index: 2}, out.OrderBys[1].Items[0].Dir)

	vals, err := out.Params.ResolveAll()
	require.NoError(t, err)
	assert.Equal(t, []any{13, 99, Asc}, vals)
}

func TestDirection_Valid(t *testing.T) {
	assert.True(t, Asc.Valid())
	assert.True(t, Desc.Valid())
	assert.False(t, Direction(7).Valid())
	assert.Equal(t, "asc", Asc.String())
	assert.Equal(t, "desc", Desc.String())
}

func TestInspect(t *testing.T) {
	q := From("users")
	var params ParamTable
	idx := params.AddValue(13)
	clause := OrderByClause{
		Items: []OrderByItem{
			{Dir: Asc, Expr: Field{Binding: 0, Name: "name"}},
			{Dir: Desc, Expr: Param{Index: idx}},
		},
		Params: params,
	}
	out := q.AppendOrderBy(clause)

	assert.Equal(t,
		"#Query<from: users, order_by: [asc: users.name, desc: ^0], params: 1>",
		out.Inspect())
}
