// Package fieldtype provides the runtime type system for schema fields.
//
// A declared type is either a primitive Kind from a closed set, an Array
// wrapping a primitive, or a Custom adapter around a pluggable user
// implementation. All other internal packages import fieldtype; fieldtype
// imports nothing internal.
//
// Four operations move values across the program/store boundary:
//   - Cast coerces untrusted external input, permissively but all-or-nothing.
//   - Dump validates a value on its way into the store (no coercion).
//   - Load validates a value on its way out of the store (no coercion).
//   - Blank decides whether a value is semantically empty.
//
// nil is a universal success value for every primitive type: it represents
// an explicit absence and passes through Cast, Dump and Load unchanged.
package fieldtype
