package session

// ValidationStatus is the derived validity of a session's draft.
type ValidationStatus string

const (
	// StatusPending - the draft changed since the last validation pass.
	StatusPending ValidationStatus = "pending"
	// StatusValid - no blocking semantic issues and assertions are satisfiable.
	StatusValid ValidationStatus = "valid"
	// StatusInvalid - a blocking semantic issue or an unsat verdict.
	StatusInvalid ValidationStatus = "invalid"
	// StatusUnknown - the solver errored or timed out. Not fatal; blocks
	// finalize without corrupting the draft.
	StatusUnknown ValidationStatus = "unknown"
)

// Severity classifies a semantic issue. Only SeverityError blocks validity.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding from the semantic validator.
type Issue struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Effect is the index of the effect the issue points at, -1 when the
	// issue concerns the chain as a whole.
	Effect int `json:"effect,omitempty"`
}

// VerdictOutcome is the solver's answer for a set of predicates.
type VerdictOutcome string

const (
	VerdictSat   VerdictOutcome = "sat"
	VerdictUnsat VerdictOutcome = "unsat"
	VerdictError VerdictOutcome = "error"
)

// Verdict is the constraint validator's interpretation of a solver call.
type Verdict struct {
	Outcome    VerdictOutcome `json:"outcome"`
	Predicates []string       `json:"predicates,omitempty"`
	// Witness explains an unsat outcome: which constraints conflict.
	Witness string `json:"witness,omitempty"`
	// Err carries the solver failure for error outcomes (timeout included);
	// Code distinguishes SOLVER_TIMEOUT from SOLVER_ERROR.
	Err  string    `json:"error,omitempty"`
	Code ErrorCode `json:"code,omitempty"`
}

// ValidationResult aggregates one full validation pass.
type ValidationResult struct {
	SemanticIssues []Issue          `json:"semantic_issues,omitempty"`
	SolverVerdicts []Verdict        `json:"solver_verdicts,omitempty"`
	Status         ValidationStatus `json:"validation_status"`
}

// Derive computes the validation status from the collected findings:
// any error-severity issue or unsat verdict forces invalid, otherwise any
// solver error degrades to unknown, otherwise the draft is valid. Warnings
// never block validity on their own.
func (r *ValidationResult) Derive() ValidationStatus {
	invalid := false
	unknown := false
	for _, iss := range r.SemanticIssues {
		if iss.Severity == SeverityError {
			invalid = true
		}
	}
	for _, v := range r.SolverVerdicts {
		switch v.Outcome {
		case VerdictUnsat:
			invalid = true
		case VerdictError:
			unknown = true
		}
	}
	switch {
	case invalid:
		r.Status = StatusInvalid
	case unknown:
		r.Status = StatusUnknown
	default:
		r.Status = StatusValid
	}
	return r.Status
}

// Clone returns a deep copy of the result.
func (r *ValidationResult) Clone() *ValidationResult {
	if r == nil {
		return nil
	}
	out := &ValidationResult{Status: r.Status}
	if r.SemanticIssues != nil {
		out.SemanticIssues = append([]Issue(nil), r.SemanticIssues...)
	}
	if r.SolverVerdicts != nil {
		out.SolverVerdicts = make([]Verdict, len(r.SolverVerdicts))
		for i, v := range r.SolverVerdicts {
			out.SolverVerdicts[i] = v
			if v.Predicates != nil {
				out.SolverVerdicts[i].Predicates = append([]string(nil), v.Predicates...)
			}
		}
	}
	return out
}
