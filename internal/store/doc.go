// Package store provides session storage behind a narrow interface.
//
// Two implementations ship: an in-memory map for tests and single-process
// use, and a SQLite store (WAL mode, embedded schema, user_version
// migrations) for durable multi-client editing.
//
// The store itself performs no locking across concurrent mutating calls
// on the same session.
// The later Put wins and lost updates are not detected. Any stronger
// guarantee is an injectable Guard strategy layered on top, not part of the
// baseline contract.
//
// Both implementations deal exclusively in snapshots: Get returns a deep
// copy and Put stores a deep copy, so callers never alias stored state.
package store
