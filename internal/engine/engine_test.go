package engine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
	"github.com/mortise/tenon/internal/store"
	"github.com/mortise/tenon/internal/testutil"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const emailPrompt = "a function called isValidEmail that takes a string email and returns bool"

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithClock(testutil.NewDeterministicClock(epoch).Now),
		WithHoleIDs(testutil.NewSequenceIDs("h").Next),
		WithSessionIDs(testutil.NewSequenceIDs("s").Next),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(store.NewMemoryStore(), append(base, opts...)...)
}

// tallyDraft is a fully concrete, valid reverse-mode draft.
func tallyDraft(assertions ...string) *ir.IR {
	d := &ir.IR{
		Intent:    ir.Intent{Summary: ir.Concrete("keep a running tally of items")},
		Signature: ir.Signature{Name: ir.Concrete("tally"), ReturnType: ir.Concrete("void")},
		Effects:   []ir.Effect{{Describe: ir.Concrete("count the items")}},
	}
	for _, a := range assertions {
		d.Assertions = append(d.Assertions, ir.Assertion{Predicate: ir.Concrete(a)})
	}
	return d
}

func TestCreate_PromptSession(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.Create(context.Background(), emailPrompt)
	require.NoError(t, err)

	assert.Equal(t, "s-0001", s.ID)
	assert.Equal(t, session.OriginPrompt, s.Origin.Kind)
	assert.Equal(t, session.StateDraft, s.State)
	assert.Equal(t, session.StatusPending, s.ValidationStatus)
	// The prompt pins down the signature; only the behavior is open.
	require.Len(t, s.Ambiguities, 1)

	got, err := e.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Ambiguities, got.Ambiguities)
}

func TestCreateFromIR_ReverseMode(t *testing.T) {
	e := newTestEngine(t)
	s, err := e.CreateFromIR(context.Background(), tallyDraft(), "legacy/tally.go")
	require.NoError(t, err)

	assert.Equal(t, session.OriginReverse, s.Origin.Kind)
	assert.Equal(t, "legacy/tally.go", s.Origin.Source)
	assert.Empty(t, s.Ambiguities)
}

func TestCreateFromIR_RejectsBrokenDraft(t *testing.T) {
	e := newTestEngine(t)
	draft := tallyDraft()
	draft.Effects[0].Describe = ir.OpenSlot("dangling") // no hole record

	_, err := e.CreateFromIR(context.Background(), draft, "x")
	require.Error(t, err)
}

func TestResolve_HappyPathThroughFinalize(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)
	holeID := s.Ambiguities[0]

	s, err = e.Resolve(ctx, s.ID, holeID, "return true", session.SpecifyEffect)
	require.NoError(t, err)
	assert.Empty(t, s.Ambiguities)
	assert.Equal(t, session.StatusPending, s.ValidationStatus)
	require.Len(t, s.History, 1)
	assert.Equal(t, holeID, s.History[0].HoleID)
	assert.Equal(t, epoch.Add(time.Second), s.History[0].Timestamp)

	s, err = e.Validate(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusValid, s.ValidationStatus)

	s, err = e.Finalize(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateFinalized, s.State)

	// Finalized means frozen: further resolutions are rejected.
	_, err = e.Resolve(ctx, s.ID, holeID, "return false", session.SpecifyEffect)
	assert.True(t, session.IsFinalized(err))

	// Not destroyed, though.
	got, err := e.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateFinalized, got.State)
}

func TestResolve_RejectionLeavesStoreUntouched(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)
	before, err := s.Draft.Fingerprint()
	require.NoError(t, err)

	// Wrong resolution type for an effect hole.
	_, err = e.Resolve(ctx, s.ID, s.Ambiguities[0], "whatever", session.ClarifyIntent)
	assert.Equal(t, session.ErrCodeInvalidResolutionType, session.CodeOf(err))

	got, err := e.Get(ctx, s.ID)
	require.NoError(t, err)
	after, err := got.Draft.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, got.History)
}

func TestResolve_MarkerSpawnsFollowUpHole(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)
	holeID := s.Ambiguities[0]

	s, err = e.Resolve(ctx, s.ID, holeID,
		"split the email {?on which separator?}", session.SpecifyEffect)
	require.NoError(t, err)

	require.Len(t, s.Ambiguities, 1)
	assert.NotEqual(t, holeID, s.Ambiguities[0])
	require.Len(t, s.History, 1)
	assert.Equal(t, []string{s.Ambiguities[0]}, s.History[0].NewHoles)
}

func TestFinalize_LazyValidation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)
	_, err = e.Resolve(ctx, s.ID, s.Ambiguities[0], "return true", session.SpecifyEffect)
	require.NoError(t, err)

	// No explicit Validate call; Finalize runs the pass itself.
	s, err = e.Finalize(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateFinalized, s.State)
	assert.Equal(t, session.StatusValid, s.ValidationStatus)
	require.NotNil(t, s.LastValidation)
}

func TestFinalize_BlockedByOpenHoles(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)

	_, err = e.Finalize(ctx, s.ID)
	assert.Equal(t, session.ErrCodeUnresolvedAmbiguities, session.CodeOf(err))

	got, err := e.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateDraft, got.State)
}

func TestFinalize_BlockedByUnsatAssertions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.CreateFromIR(ctx, tallyDraft("count > 5", "count < 3"), "x")
	require.NoError(t, err)

	_, err = e.Finalize(ctx, s.ID)
	require.Equal(t, session.ErrCodeValidationFailed, session.CodeOf(err))

	var se *session.Error
	require.ErrorAs(t, err, &se)
	require.NotNil(t, se.Result)
	assert.Equal(t, session.StatusInvalid, se.Result.Status)
	require.Len(t, se.Result.SolverVerdicts, 1)
	assert.Equal(t, session.VerdictUnsat, se.Result.SolverVerdicts[0].Outcome)

	// The blocked pass still committed its findings.
	got, err := e.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusInvalid, got.ValidationStatus)
	assert.Equal(t, session.StateDraft, got.State)
}

func TestFinalize_BlockedByMissingReturn(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	draft := tallyDraft()
	draft.Signature.ReturnType = ir.Concrete("int") // chain never returns
	s, err := e.CreateFromIR(ctx, draft, "x")
	require.NoError(t, err)

	s, err = e.Validate(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusInvalid, s.ValidationStatus)
	require.NotEmpty(t, s.LastValidation.SemanticIssues)
	assert.Equal(t, "missing_return", s.LastValidation.SemanticIssues[0].Code)

	_, err = e.Finalize(ctx, s.ID)
	assert.Equal(t, session.ErrCodeValidationFailed, session.CodeOf(err))
}

type erroringSolver struct{}

func (erroringSolver) CheckSatisfiable(ctx context.Context, _ []string) (session.Verdict, error) {
	<-ctx.Done()
	return session.Verdict{}, ctx.Err()
}

func TestValidate_SolverTimeoutDegradesToUnknown(t *testing.T) {
	e := newTestEngine(t,
		WithSolver(erroringSolver{}),
		WithSolverTimeout(10*time.Millisecond))
	ctx := context.Background()
	s, err := e.CreateFromIR(ctx, tallyDraft("count > 0"), "x")
	require.NoError(t, err)

	s, err = e.Validate(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusUnknown, s.ValidationStatus)

	// Unknown blocks finalize but is not fatal to the session.
	_, err = e.Finalize(ctx, s.ID)
	assert.Equal(t, session.ErrCodeValidationFailed, session.CodeOf(err))
	got, err := e.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateDraft, got.State)
}

func TestFinalize_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.CreateFromIR(ctx, tallyDraft(), "x")
	require.NoError(t, err)
	_, err = e.Finalize(ctx, s.ID)
	require.NoError(t, err)

	again, err := e.Finalize(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StateFinalized, again.State)
}

func TestExport_DraftRoundTrips(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)

	data, err := e.Export(ctx, s.ID)
	require.NoError(t, err)

	back, err := session.Import(data)
	require.NoError(t, err)
	assert.Equal(t, s.ID, back.ID)
	want, err := s.Draft.Fingerprint()
	require.NoError(t, err)
	got, err := back.Draft.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExport_FinalizedIsDraftAlone(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)
	_, err = e.Resolve(ctx, s.ID, s.Ambiguities[0], "return true", session.SpecifyEffect)
	require.NoError(t, err)
	_, err = e.Finalize(ctx, s.ID)
	require.NoError(t, err)

	data, err := e.Export(ctx, s.ID)
	require.NoError(t, err)

	var draft ir.IR
	require.NoError(t, json.Unmarshal(data, &draft))
	assert.Empty(t, draft.Holes)
	assert.Empty(t, draft.OpenHoles())
	assert.Equal(t, "isValidEmail", draft.Signature.Name.Value)

	// No session envelope in a finalized export.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "session_id")
}

func TestExport_FinalizedSeedsNewReverseSession(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)
	_, err = e.Resolve(ctx, s.ID, s.Ambiguities[0], "return true", session.SpecifyEffect)
	require.NoError(t, err)
	_, err = e.Finalize(ctx, s.ID)
	require.NoError(t, err)

	data, err := e.Export(ctx, s.ID)
	require.NoError(t, err)

	// Editing a finalized specification means a new session seeded from
	// its export.
	var draft ir.IR
	require.NoError(t, json.Unmarshal(data, &draft))
	next, err := e.CreateFromIR(ctx, &draft, "export of "+s.ID)
	require.NoError(t, err)

	assert.Equal(t, session.OriginReverse, next.Origin.Kind)
	assert.Equal(t, &draft, next.Draft)
	assert.Empty(t, next.Ambiguities)
	assert.Equal(t, session.StatusPending, next.ValidationStatus)
}

func TestCreateFromSource_LiftsSignature(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	src := "func isValidEmail(email string) bool {\n\treturn strings.Contains(email, \"@\")\n}\n"

	s, err := e.CreateFromSource(ctx, src)
	require.NoError(t, err)

	assert.Equal(t, session.OriginReverse, s.Origin.Kind)
	assert.Equal(t, src, s.Origin.Source)
	assert.Equal(t, "isValidEmail", s.Draft.Signature.Name.Value)
	require.Len(t, s.Draft.Signature.Params, 1)
	assert.Equal(t, "email", s.Draft.Signature.Params[0].Name.Value)
	assert.Equal(t, "bool", s.Draft.Signature.ReturnType.Value)
	// Source says what it does, not what it is for: intent and behavior
	// come out as holes.
	assert.Len(t, s.Ambiguities, 2)
}

func TestCreateFromSource_NoFunctionRejected(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CreateFromSource(context.Background(), "just prose, no code")
	require.Error(t, err)
}

func TestResolve_MarkerBesideTextOnIntentRejected(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	draft := tallyDraft()
	draft.Intent.Summary = ir.OpenSlot("h-i")
	draft.AddHole(ir.Hole{ID: "h-i", Detail: ir.IntentDetail{}})
	s, err := e.CreateFromIR(ctx, draft, "x")
	require.NoError(t, err)

	_, err = e.Resolve(ctx, s.ID, "h-i",
		"keep a tally {?should duplicates count twice?}", session.ClarifyIntent)
	assert.Equal(t, session.ErrCodeInvalidResolutionText, session.CodeOf(err))

	got, err := e.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.History)
	assert.Equal(t, []string{"h-i"}, got.Ambiguities)
}

func TestSuggest_IsAdvisoryOnly(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)

	sug, err := e.Suggest(ctx, s.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"return the bool"}, sug[s.Ambiguities[0]])

	// Nothing was applied.
	got, err := e.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Ambiguities, got.Ambiguities)
	assert.Empty(t, got.History)
}

func TestList_Summaries(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	a, err := e.Create(ctx, emailPrompt)
	require.NoError(t, err)
	b, err := e.CreateFromIR(ctx, tallyDraft(), "x")
	require.NoError(t, err)

	sums, err := e.List(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, a.ID, sums[0].ID)
	assert.Equal(t, 1, sums[0].OpenHoles)
	assert.Equal(t, b.ID, sums[1].ID)
	assert.Equal(t, session.OriginReverse, sums[1].OriginKind)
}

func TestDelete_DestroysEvenFinalized(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	s, err := e.CreateFromIR(ctx, tallyDraft(), "x")
	require.NoError(t, err)
	_, err = e.Finalize(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, e.Delete(ctx, s.ID))
	_, err = e.Get(ctx, s.ID)
	assert.True(t, session.IsNotFound(err))
}

func TestGet_UnknownSession(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Get(context.Background(), "nope")
	assert.True(t, session.IsNotFound(err))
}
