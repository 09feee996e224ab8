// Package orderby escapes order-by expressions into the canonical query
// representation.
//
// Escaping happens at query-construction time: directions are validated
// against the closed asc/desc enum, field references are resolved against
// the query's bound sources, and literal or late-bound values are moved
// into the parameter table so the built clause carries only placeholders.
// A value that is not known until the query executes is wrapped in a
// resolver that re-validates at resolution time - never silently coerced.
package orderby
