package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/mortise/tenon/internal/ir"
)

// RunWithGolden executes a scenario and compares the canonical JSON of
// the final session export against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	s, err := Run(sc)
	if err != nil {
		return err
	}

	exported, err := s.Export()
	if err != nil {
		return err
	}
	// Re-encode canonically so golden comparison is byte-stable and
	// independent of struct field order.
	canonical, err := ir.MarshalCanonical(json.RawMessage(exported))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, append(canonical, '\n'))
	return nil
}
