// Package ir provides canonical intermediate representation types for Tenon.
//
// This package contains type definitions and structural helpers only. All
// other internal packages import ir; ir imports nothing internal. This
// ensures IR remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Holes are represented in-place: every position that can hold missing
//     information is a Slot, which is either concrete text or a reference to
//     an entry in the draft's hole table.
//   - The hole-kind taxonomy is a closed sum type (Detail), so resolution
//     compatibility is an exhaustive type switch, not a string comparison.
//   - Hole records are immutable once created except for Status.
//   - All JSON tags use snake_case.
package ir
