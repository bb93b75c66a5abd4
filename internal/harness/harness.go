package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mortise/tenon/internal/engine"
	"github.com/mortise/tenon/internal/session"
	"github.com/mortise/tenon/internal/store"
	"github.com/mortise/tenon/internal/testutil"
)

// scenarioEpoch anchors the deterministic clock. Every scenario starts
// here, so resolution timestamps are identical across runs.
var scenarioEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Run executes a scenario against a fresh engine and returns the final
// session. Any deviation from the scripted outcome is an error.
func Run(sc *Scenario) (*session.Session, error) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := engine.New(store.NewMemoryStore(),
		engine.WithClock(testutil.NewDeterministicClock(scenarioEpoch).Now),
		engine.WithHoleIDs(testutil.NewSequenceIDs("h").Next),
		engine.WithSessionIDs(testutil.NewSequenceIDs("s").Next),
		engine.WithLogger(log),
	)
	ctx := context.Background()

	s, err := e.Create(ctx, sc.Prompt)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: create: %w", sc.Name, err)
	}

	for i, step := range sc.Steps {
		if step.HoleIndex < 0 || step.HoleIndex >= len(s.Ambiguities) {
			return nil, fmt.Errorf("scenario %s: step %d: hole index %d out of range (open=%d)",
				sc.Name, i, step.HoleIndex, len(s.Ambiguities))
		}
		holeID := s.Ambiguities[step.HoleIndex]
		next, err := e.Resolve(ctx, s.ID, holeID, step.Text, session.ResolutionType(step.Type))
		if err := checkOutcome(sc.Name, fmt.Sprintf("step %d", i), step.Error, err); err != nil {
			return nil, err
		}
		if next != nil {
			s = next
		}
	}

	if sc.Validate {
		s, err = e.Validate(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: validate: %w", sc.Name, err)
		}
	}

	if sc.Finalize {
		next, err := e.Finalize(ctx, s.ID)
		if err := checkOutcome(sc.Name, "finalize", sc.FinalizeError, err); err != nil {
			return nil, err
		}
		if next != nil {
			s = next
		}
	}

	if err := checkExpect(sc, s); err != nil {
		return nil, err
	}
	return s, nil
}

// checkOutcome compares an operation's result with its scripted outcome.
func checkOutcome(scenario, op, wantCode string, err error) error {
	if wantCode == "" {
		if err != nil {
			return fmt.Errorf("scenario %s: %s: %w", scenario, op, err)
		}
		return nil
	}
	if err == nil {
		return fmt.Errorf("scenario %s: %s: expected error %s, got success", scenario, op, wantCode)
	}
	if got := session.CodeOf(err); string(got) != wantCode {
		return fmt.Errorf("scenario %s: %s: expected error %s, got %w", scenario, op, wantCode, err)
	}
	return nil
}

func checkExpect(sc *Scenario, s *session.Session) error {
	if sc.Expect == nil {
		return nil
	}
	ex := sc.Expect
	if ex.State != "" && string(s.State) != ex.State {
		return fmt.Errorf("scenario %s: state %s, want %s", sc.Name, s.State, ex.State)
	}
	if ex.ValidationStatus != "" && string(s.ValidationStatus) != ex.ValidationStatus {
		return fmt.Errorf("scenario %s: validation status %s, want %s", sc.Name, s.ValidationStatus, ex.ValidationStatus)
	}
	if ex.OpenHoles != nil && len(s.Ambiguities) != *ex.OpenHoles {
		return fmt.Errorf("scenario %s: %d open holes, want %d", sc.Name, len(s.Ambiguities), *ex.OpenHoles)
	}
	if ex.History != nil && len(s.History) != *ex.History {
		return fmt.Errorf("scenario %s: %d history records, want %d", sc.Name, len(s.History), *ex.History)
	}
	return nil
}
