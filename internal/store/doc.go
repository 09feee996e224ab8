// Package store is the SQLite storage adapter. It owns the database
// handle and exposes the row-level write operations the repo layer is
// built on: insert, update and delete with read-back of store-generated
// columns.
//
// The adapter works with dumped (store-native) values only; type
// coercion happens above it. Schema migration is out of scope - callers
// own their tables.
package store
