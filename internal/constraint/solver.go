package constraint

import (
	"context"
	"errors"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// Solver is the external satisfiability collaborator. Implementations must
// honor ctx cancellation; slow solvers are bounded by the caller's
// deadline.
type Solver interface {
	// CheckSatisfiable reports whether the predicates can all hold at
	// once. A returned error means the solver itself failed (including
	// timeout); the caller degrades that to an unknown validation status,
	// never to invalid.
	CheckSatisfiable(ctx context.Context, predicates []string) (session.Verdict, error)
}

// Check runs the constraint pass over a draft's assertions: collects the
// concrete predicates (holes have nothing to check yet), asks the solver
// for mutual satisfiability, and folds solver failure into an error
// verdict.
//
// An empty predicate set yields no verdicts at all - nothing to solve.
func Check(ctx context.Context, solver Solver, draft *ir.IR) []session.Verdict {
	var predicates []string
	for _, a := range draft.Assertions {
		if !a.Predicate.IsHole() && a.Predicate.Value != "" {
			predicates = append(predicates, a.Predicate.Value)
		}
	}
	if len(predicates) == 0 {
		return nil
	}

	verdict, err := solver.CheckSatisfiable(ctx, predicates)
	if err != nil {
		code := session.ErrCodeSolverError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			code = session.ErrCodeSolverTimeout
		}
		return []session.Verdict{{
			Outcome:    session.VerdictError,
			Predicates: predicates,
			Err:        err.Error(),
			Code:       code,
		}}
	}
	if verdict.Predicates == nil {
		verdict.Predicates = predicates
	}
	return []session.Verdict{verdict}
}
