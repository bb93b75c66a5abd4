package semantic

import (
	"fmt"
	"strings"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// Issue codes emitted by the semantic validator.
const (
	// IssueMissingReturn - the signature declares a return value but the
	// effect chain never returns one. The only blocking issue.
	IssueMissingReturn = "missing_return"

	// IssueTypeMismatch - the returned value's tracked type disagrees with
	// the declared return type.
	IssueTypeMismatch = "type_mismatch"

	// IssueOffByOne - intent asks for the first occurrence but the chain
	// iterates without an early exit, risking a last-match result.
	IssueOffByOne = "off_by_one"

	// IssueInvalidLogic - a validator checks required parts without the
	// ordering constraint that makes the check meaningful.
	IssueInvalidLogic = "invalid_logic"

	// IssueParseIncomplete - an effect fell outside the grammar and the
	// step was skipped.
	IssueParseIncomplete = "parse_incomplete"
)

// Validate runs the full semantic pass over a draft: effect-chain
// analysis, the return-consistency check, and the heuristic logic-error
// detectors. The returned issues are in detection order.
func Validate(draft *ir.IR) []session.Issue {
	chain, issues := AnalyzeChain(draft)
	issues = append(issues, checkReturnConsistency(draft, chain)...)
	issues = append(issues, checkFirstOccurrence(draft, chain)...)
	issues = append(issues, checkValidatorOrdering(draft)...)
	return issues
}

// checkReturnConsistency enforces that a non-void signature's chain ends in
// an explicit return, and that the returned type agrees with the declared
// one when both are known.
func checkReturnConsistency(draft *ir.IR, chain *Chain) []session.Issue {
	if draft.Signature.ReturnType.IsHole() {
		return nil // nothing declared to check against yet
	}
	declared := draft.Signature.ReturnType.Value
	if isVoid(declared) {
		return nil
	}

	if chain.Return == nil {
		return []session.Issue{{
			Code:     IssueMissingReturn,
			Severity: session.SeverityError,
			Message:  fmt.Sprintf("signature declares return type %q but no effect returns a value", declared),
			Effect:   -1,
		}}
	}

	want := normalizeType(declared)
	got := chain.Return.TypeHint
	if want != "" && got != "" && want != got {
		return []session.Issue{{
			Code:     IssueTypeMismatch,
			Severity: session.SeverityWarning,
			Message:  fmt.Sprintf("effect %d returns a %s but the signature declares %q", chain.Return.Effect, got, declared),
			Effect:   chain.Return.Effect,
		}}
	}
	return nil
}

// checkFirstOccurrence flags the classic first-versus-last defect: intent
// promises the first occurrence while the chain iterates to exhaustion
// before returning, which hands back the last match instead.
func checkFirstOccurrence(draft *ir.IR, chain *Chain) []session.Issue {
	if draft.Intent.Summary.IsHole() {
		return nil
	}
	intent := strings.ToLower(draft.Intent.Summary.Value)
	wantsFirst := strings.Contains(intent, "first occurrence") ||
		strings.Contains(intent, "first match") ||
		strings.Contains(intent, "first instance") ||
		strings.Contains(intent, "first index")
	if !wantsFirst {
		return nil
	}
	if !chain.sawIteration || chain.iterationBounded {
		return nil
	}
	if chain.Return == nil || chain.Return.Effect < chain.iterationEffect {
		return nil
	}
	return []session.Issue{{
		Code:     IssueOffByOne,
		Severity: session.SeverityWarning,
		Message:  "intent asks for the first occurrence but the iteration has no early exit; the chain would return the last match",
		Effect:   chain.iterationEffect,
	}}
}

// checkValidatorOrdering targets email-style validators: checking that "@"
// and "." are both present accepts "a.b@c"; the dot must be required
// strictly after the "@". Fires when both presence checks exist and no
// effect or assertion states an ordering between them.
func checkValidatorOrdering(draft *ir.IR) []session.Issue {
	if draft.Intent.Summary.IsHole() {
		return nil
	}
	intent := strings.ToLower(draft.Intent.Summary.Value)
	name := strings.ToLower(draft.Signature.Name.Value)
	if !strings.Contains(intent, "valid") && !strings.Contains(name, "valid") {
		return nil
	}

	var texts []string
	for _, e := range draft.Effects {
		if !e.Describe.IsHole() {
			texts = append(texts, strings.ToLower(e.Describe.Value))
		}
	}
	for _, a := range draft.Assertions {
		if !a.Predicate.IsHole() {
			texts = append(texts, strings.ToLower(a.Predicate.Value))
		}
	}

	hasAt, hasDot, hasOrdering := false, false, false
	for _, t := range texts {
		if strings.Contains(t, "@") {
			hasAt = true
		}
		if strings.Contains(t, "dot") || strings.Contains(t, "period") || strings.Contains(t, `"."`) || strings.Contains(t, "'.'") {
			hasDot = true
		}
		for _, word := range []string{"after", "before", "follow", "followed", "precede", "position", "order"} {
			if strings.Contains(t, word) {
				hasOrdering = true
			}
		}
	}
	if hasAt && hasDot && !hasOrdering {
		return []session.Issue{{
			Code:     IssueInvalidLogic,
			Severity: session.SeverityWarning,
			Message:  `presence of "@" and "." is checked without an ordering constraint; the dot must be required strictly after the "@"`,
			Effect:   -1,
		}}
	}
	return nil
}
