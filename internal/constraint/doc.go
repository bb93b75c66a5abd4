// Package constraint checks a draft's assertions for mutual satisfiability.
//
// The package owns the Solver contract and its default implementation,
// which translates comparison predicates into CUE constraints and lets CUE
// unification find contradictions. The core only interprets verdicts:
// unsat forces the draft invalid and surfaces the conflict witness; a
// solver failure or timeout degrades the validation status to unknown
// rather than failing the session.
//
// Free-prose predicates the translator does not understand are treated as
// opaque and excluded from the solver call; satisfiability is judged over
// the translatable subset only.
package constraint
