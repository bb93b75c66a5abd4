package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mortise/tenon/internal/constraint"
	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/resolve"
	"github.com/mortise/tenon/internal/semantic"
	"github.com/mortise/tenon/internal/session"
)

// Resolve applies one typed resolution to a hole and commits the result.
// A rejected resolution commits nothing; the stored session is untouched.
func (e *Engine) Resolve(ctx context.Context, sessionID, holeID, text string, rt session.ResolutionType) (*session.Session, error) {
	release := e.guard.Acquire(sessionID)
	defer release()

	s, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := resolve.Apply(s, holeID, text, rt, e.now(), e.newHoleID); err != nil {
		return nil, err
	}
	if err := e.store.Put(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("hole resolved",
		"session", s.ID, "hole", holeID, "type", rt, "open_holes", len(s.Ambiguities))
	return s, nil
}

// Validate runs both validators over the current draft, derives the
// session's validation status, and commits the result.
//
// Finalized sessions are returned unchanged; their draft cannot have
// drifted since the validation pass that admitted them.
func (e *Engine) Validate(ctx context.Context, sessionID string) (*session.Session, error) {
	release := e.guard.Acquire(sessionID)
	defer release()

	s, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.State == session.StateFinalized {
		return s, nil
	}
	result := e.runValidation(ctx, s.Draft)
	s.LastValidation = result
	s.ValidationStatus = result.Status
	if err := e.store.Put(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("validation run",
		"session", s.ID, "status", result.Status,
		"issues", len(result.SemanticIssues), "verdicts", len(result.SolverVerdicts))
	return s, nil
}

// Finalize freezes a session. The transition is guarded twice: the
// ambiguity set must be empty and the validation status must be valid. A
// pending status triggers a lazy validation pass first, so a caller who
// resolved the last hole does not have to call Validate explicitly.
//
// Finalizing a finalized session is a no-op.
func (e *Engine) Finalize(ctx context.Context, sessionID string) (*session.Session, error) {
	release := e.guard.Acquire(sessionID)
	defer release()

	s, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.State == session.StateFinalized {
		return s, nil
	}
	if len(s.Ambiguities) > 0 {
		return nil, session.NewUnresolvedAmbiguities(s.ID, len(s.Ambiguities))
	}
	if s.ValidationStatus == session.StatusPending {
		result := e.runValidation(ctx, s.Draft)
		s.LastValidation = result
		s.ValidationStatus = result.Status
		// Commit the findings even when they block the transition.
		if err := e.store.Put(ctx, s); err != nil {
			return nil, err
		}
	}
	if s.ValidationStatus != session.StatusValid {
		return nil, session.NewValidationFailed(s.ID, s.LastValidation)
	}

	fp, err := s.Draft.FinalizedFingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint finalized draft: %w", err)
	}
	s.State = session.StateFinalized
	if err := e.store.Put(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("session finalized", "session", s.ID, "fingerprint", fp)
	return s, nil
}

// Export serializes a session for external consumption. Draft sessions
// export the full session object; a finalized session exports its draft
// alone, with the hole table emptied of the resolved entries.
func (e *Engine) Export(ctx context.Context, sessionID string) ([]byte, error) {
	s, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.State == session.StateFinalized {
		draft := s.Draft.Clone()
		draft.PruneResolved()
		data, err := json.MarshalIndent(draft, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export session %s: %w", sessionID, err)
		}
		return data, nil
	}
	return s.Export()
}

// Suggest asks the drafter for advisory resolution text. With no explicit
// hole ids the whole ambiguity set is consulted. Nothing is applied.
func (e *Engine) Suggest(ctx context.Context, sessionID string, holeIDs []string) (map[string][]string, error) {
	s, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(holeIDs) == 0 {
		holeIDs = s.Ambiguities
	}
	return e.drafter.SuggestResolutions(ctx, s, holeIDs)
}

// runValidation executes one full validation pass over a draft. The
// solver call is bounded by the configured timeout; constraint.Check
// folds a timeout into an error verdict, which Derive degrades to
// unknown.
func (e *Engine) runValidation(ctx context.Context, draft *ir.IR) *session.ValidationResult {
	result := &session.ValidationResult{
		SemanticIssues: semantic.Validate(draft),
	}
	sctx, cancel := context.WithTimeout(ctx, e.solverTimeout)
	defer cancel()
	result.SolverVerdicts = constraint.Check(sctx, e.solver, draft)
	result.Derive()
	return result
}
