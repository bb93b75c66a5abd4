// Package engine is the refinement engine service: the one component that
// ties sessions, storage, the resolution protocol, the two validators, and
// the assist collaborators together.
//
// Every operation follows the same snapshot-compute-commit shape: read a
// full session snapshot from the store, mutate the snapshot, write it
// back. The store is last-write-wins by default; an injectable Guard can
// serialize the read-modify-write cycle per session when a deployment
// wants that.
//
// The engine never applies suggestions, never mutates a finalized draft,
// and derives validation status exclusively through
// session.ValidationResult.Derive.
package engine
