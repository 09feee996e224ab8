package query

import "fmt"

// ParamEntry is one slot in the parameter table: either a literal value
// known at build time, or a deferred resolver evaluated when the query
// finally runs. Exactly one of the two is set.
type ParamEntry struct {
	Value   any
	Resolve func() (any, error) // non-nil means deferred
}

// ParamTable is an ordered parameter accumulator. Insertion order is
// preserved because order determines later positional substitution.
// The zero value is ready to use.
type ParamTable struct {
	entries []ParamEntry
}

// Len returns the number of accumulated parameters.
func (pt *ParamTable) Len() int { return len(pt.entries) }

// AddValue appends a literal parameter and returns its index.
func (pt *ParamTable) AddValue(v any) int {
	pt.entries = append(pt.entries, ParamEntry{Value: v})
	return len(pt.entries) - 1
}

// AddDeferred appends a late-bound parameter and returns its index.
func (pt *ParamTable) AddDeferred(resolve func() (any, error)) int {
	pt.entries = append(pt.entries, ParamEntry{Resolve: resolve})
	return len(pt.entries) - 1
}

// Merge appends every entry of other, preserving its insertion order,
// and returns the offset by which other's indices were shifted.
// Existing entries are never overwritten.
func (pt *ParamTable) Merge(other ParamTable) int {
	offset := len(pt.entries)
	pt.entries = append(pt.entries, other.entries...)
	return offset
}

// Entry returns the entry at index i.
func (pt *ParamTable) Entry(i int) (ParamEntry, error) {
	if i < 0 || i >= len(pt.entries) {
		return ParamEntry{}, fmt.Errorf("parameter index %d out of range (have %d)", i, len(pt.entries))
	}
	return pt.entries[i], nil
}

// ResolveAll produces the positional parameter list, evaluating deferred
// resolvers. A resolver failure aborts the whole resolution: late-bound
// values are validated before any store interaction.
func (pt *ParamTable) ResolveAll() ([]any, error) {
	out := make([]any, len(pt.entries))
	for i, e := range pt.entries {
		if e.Resolve == nil {
			out[i] = e.Value
			continue
		}
		v, err := e.Resolve()
		if err != nil {
			return nil, fmt.Errorf("resolve parameter %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// clone returns a copy that can be extended without aliasing pt.
func (pt *ParamTable) clone() ParamTable {
	entries := make([]ParamEntry, len(pt.entries))
	copy(entries, pt.entries)
	return ParamTable{entries: entries}
}
