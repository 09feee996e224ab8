// Package repo binds compiled schemas to the storage adapter. Every
// value crossing into the store is dumped to its store-native form
// first, and every value the store reports back is loaded into runtime
// form, so callers only ever see runtime representations.
package repo
