package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mortise/tenon/internal/ir"
)

func testDraft() *ir.IR {
	d := &ir.IR{
		Intent: ir.Intent{Summary: ir.Concrete("counts words in a string")},
		Signature: ir.Signature{
			Name:       ir.Concrete("word_count"),
			Params:     []ir.Param{{Name: ir.Concrete("text"), Type: ir.Concrete("string")}},
			ReturnType: ir.Concrete("int"),
		},
		Effects: []ir.Effect{
			{Describe: ir.Concrete("split the text by spaces")},
			{Describe: ir.OpenSlot("h-1")},
		},
	}
	d.AddHole(ir.Hole{ID: "h-1", Detail: ir.EffectDetail{}, Description: "what to do with the parts"})
	return d
}

func testSession() *Session {
	s := &Session{
		ID:               "s-1",
		Origin:           Origin{Kind: OriginPrompt, Prompt: "a word counter"},
		Draft:            testDraft(),
		ValidationStatus: StatusPending,
		State:            StateDraft,
	}
	s.Rescan()
	return s
}

func TestRescan_TracksDraftContent(t *testing.T) {
	s := testSession()
	assert.Equal(t, []string{"h-1"}, s.Ambiguities)

	// Resolve the slot directly; the set is stale until rescanned.
	s.Draft.Effects[1].Describe = ir.Concrete("count the parts")
	h, _ := s.Draft.HoleByID("h-1")
	h.Status = ir.HoleResolved
	s.Rescan()
	assert.Empty(t, s.Ambiguities)
}

func TestClone_SnapshotSemantics(t *testing.T) {
	s := testSession()
	s.Metadata = map[string]string{"owner": "alice"}
	s.History = []ResolutionRecord{{HoleID: "h-0", Text: "x", Type: SpecifyEffect, Timestamp: time.Unix(1, 0)}}

	c := s.Clone()
	c.Draft.Effects[0].Describe = ir.Concrete("mutated")
	c.Metadata["owner"] = "bob"
	c.History[0].Text = "y"
	c.Ambiguities[0] = "other"

	assert.Equal(t, "split the text by spaces", s.Draft.Effects[0].Describe.Value)
	assert.Equal(t, "alice", s.Metadata["owner"])
	assert.Equal(t, "x", s.History[0].Text)
	assert.Equal(t, []string{"h-1"}, s.Ambiguities)
}

func TestExportImport_RoundTrip(t *testing.T) {
	s := testSession()
	data, err := s.Export()
	require.NoError(t, err)

	back, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, s.ID, back.ID)
	assert.Equal(t, s.Origin, back.Origin)
	assert.Equal(t, s.Ambiguities, back.Ambiguities)
	assert.Equal(t, StateDraft, back.State)

	fp1, _ := s.Draft.Fingerprint()
	fp2, _ := back.Draft.Fingerprint()
	assert.Equal(t, fp1, fp2, "draft must survive export/import byte-identically")
}

func TestImport_RejectsMissingDraft(t *testing.T) {
	_, err := Import([]byte(`{"session_id":"s-9","state":"draft"}`))
	assert.ErrorContains(t, err, "missing current_draft")
}

func TestDerive_StatusTable(t *testing.T) {
	tests := []struct {
		name   string
		result ValidationResult
		want   ValidationStatus
	}{
		{"clean", ValidationResult{}, StatusValid},
		{
			"warning only",
			ValidationResult{SemanticIssues: []Issue{{Code: "off_by_one", Severity: SeverityWarning}}},
			StatusValid,
		},
		{
			"semantic error",
			ValidationResult{SemanticIssues: []Issue{{Code: "missing_return", Severity: SeverityError}}},
			StatusInvalid,
		},
		{
			"unsat",
			ValidationResult{SolverVerdicts: []Verdict{{Outcome: VerdictUnsat, Witness: "count > 5 conflicts with count < 2"}}},
			StatusInvalid,
		},
		{
			"solver error",
			ValidationResult{SolverVerdicts: []Verdict{{Outcome: VerdictError, Err: "timeout"}}},
			StatusUnknown,
		},
		{
			"semantic error wins over solver error",
			ValidationResult{
				SemanticIssues: []Issue{{Code: "missing_return", Severity: SeverityError}},
				SolverVerdicts: []Verdict{{Outcome: VerdictError, Err: "timeout"}},
			},
			StatusInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Derive())
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewSessionNotFound("s-1")))
	assert.True(t, IsHoleNotFound(NewHoleNotFound("s-1", "h-1")))
	assert.True(t, IsFinalized(NewSessionFinalized("s-1")))
	assert.Equal(t, ErrCodeValidationFailed, CodeOf(NewValidationFailed("s-1", nil)))
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
}
