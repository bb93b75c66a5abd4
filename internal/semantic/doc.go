// Package semantic detects logic errors in a draft's behavioral description
// before anything is generated from it.
//
// The effects list is treated as an ordered symbolic execution trace, not
// prose. Each effect is parsed against a small keyword grammar (verb +
// objects + optional return marker) into an operation; the analyzer threads
// a symbol table through the operations, seeded from the signature's
// parameters, and tracks whether the chain ends in an explicit return.
//
// Findings are best-effort by policy: an effect the grammar cannot parse is
// skipped with a non-blocking parse_incomplete warning. Unparsable input
// never crashes validation and never marks a draft invalid on its own; the
// only blocking issue is a missing return on a non-void signature.
package semantic
