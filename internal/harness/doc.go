// Package harness provides scenario-driven conformance testing for the
// refinement engine.
//
// A scenario is a YAML file describing one session's life: the starting
// prompt, a sequence of hole resolutions, and the closing validate and
// finalize calls, with the expected outcome of each.
//
// # Scenario Format
//
//	name: email_validator
//	description: "happy path from prompt to finalized"
//	prompt: "a function called isValidEmail that takes a string email and returns bool"
//	steps:
//	  - hole_index: 0
//	    text: "return true"
//	    type: specify_effect
//	validate: true
//	finalize: true
//	expect:
//	  state: finalized
//	  validation_status: valid
//	  open_holes: 0
//
// Steps address holes by position in the ambiguity set at the moment the
// step runs, so scenarios never hard-code generated hole ids. A step or
// the finalize call can declare an expected error code instead of
// success.
//
// # Deterministic Execution
//
// Scenarios run against an in-memory store with a deterministic clock and
// sequence id generators, which makes the exported session byte-stable.
// RunWithGolden compares the canonical JSON of the export against a
// golden file under testdata/golden; regenerate with:
//
//	go test ./internal/harness -update
package harness
