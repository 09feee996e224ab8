package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamTable_InsertionOrderPreserved(t *testing.T) {
	var pt ParamTable

	assert.Equal(t, 0, pt.AddValue("a"))
	assert.Equal(t, 1, pt.AddValue("b"))
	assert.Equal(t, 2, pt.AddDeferred(func() (any, error) { return "c", nil }))

	out, err := pt.ResolveAll()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, out)
}

func TestParamTable_MergeAppends(t *testing.T) {
	var left, right ParamTable
	left.AddValue(1)
	left.AddValue(2)
	right.AddValue(3)
	right.AddValue(4)

	offset := left.Merge(right)
	assert.Equal(t, 2, offset, "merged entries are rebased, never overwritten")

	out, err := left.ResolveAll()
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3, 4}, out)
}

func TestParamTable_MergeIntoEmpty(t *testing.T) {
	var left, right ParamTable
	right.AddValue("x")

	assert.Equal(t, 0, left.Merge(right))
	assert.Equal(t, 1, left.Len())
}

func TestParamTable_DeferredFailureAborts(t *testing.T) {
	var pt ParamTable
	pt.AddValue("fine")
	pt.AddDeferred(func() (any, error) { return nil, errors.New("boom") })

	_, err := pt.ResolveAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter 1")
}

func TestParamTable_EntryBounds(t *testing.T) {
	var pt ParamTable
	pt.AddValue("x")

	_, err := pt.Entry(1)
	require.Error(t, err)

	e, err := pt.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "x", e.Value)
}
