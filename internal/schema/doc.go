// Package schema holds model metadata: the named fields of a source, their
// runtime types, the primary key, and which fields the store reports back
// after a write.
//
// Schemas are declared in CUE and compiled with the CUE Go API. A compiled
// schema is immutable; concurrent readers need no synchronization.
package schema
