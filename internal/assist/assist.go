package assist

import (
	"context"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// Drafter produces initial drafts and resolution suggestions.
type Drafter interface {
	// ProposeInitialDraft turns a prompt into a draft with holes where the
	// prompt left things unstated. The returned draft must satisfy
	// ir.CheckInvariants.
	ProposeInitialDraft(ctx context.Context, prompt string) (*ir.IR, error)

	// SuggestResolutions proposes candidate resolution text for the given
	// open holes, keyed by hole id. Holes it has nothing to say about may
	// be absent from the result.
	SuggestResolutions(ctx context.Context, s *session.Session, holeIDs []string) (map[string][]string, error)
}

// Lifter produces a ready-made draft from existing source material,
// possibly with holes and evidence already attached. Used as the alternate
// session origin in reverse mode.
type Lifter interface {
	Lift(ctx context.Context, source string) (*ir.IR, error)
}
