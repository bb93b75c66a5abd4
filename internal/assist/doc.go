// Package assist defines the generator collaborators the engine consumes:
// a Drafter that turns a prompt into an initial draft and proposes
// resolution text for open holes, and a Lifter that produces a ready-made
// draft from existing source material (reverse mode).
//
// Suggestions are always advisory. The engine surfaces them to the caller
// and never applies one on its own.
//
// RuleDrafter is the shipped default: a deterministic, pattern-based
// drafter that needs no network and keeps the CLI usable offline.
package assist
