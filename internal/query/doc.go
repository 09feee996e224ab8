// Package query provides the canonical query representation consumed by
// clause builders and the query planner.
//
// A Query is an immutable value: every transformation returns a new
// value rather than mutating in place, so concurrent callers need no
// coordination. Order-by clauses are ordered, append-only, and carry a
// shared parameter table in which literal and late-bound values live as
// positional placeholders - the built query never embeds raw values.
package query
