package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// wordCountDraft builds the running example: split a string, count the
// parts. The trailing effects are appended per test.
func wordCountDraft(effects ...string) *ir.IR {
	d := &ir.IR{
		Intent: ir.Intent{Summary: ir.Concrete("counts the words in a string")},
		Signature: ir.Signature{
			Name:       ir.Concrete("word_count"),
			Params:     []ir.Param{{Name: ir.Concrete("text"), Type: ir.Concrete("string")}},
			ReturnType: ir.Concrete("int"),
		},
	}
	for _, e := range effects {
		d.Effects = append(d.Effects, ir.Effect{Describe: ir.Concrete(e)})
	}
	return d
}

func issueByCode(issues []session.Issue, code string) *session.Issue {
	for i := range issues {
		if issues[i].Code == code {
			return &issues[i]
		}
	}
	return nil
}

func TestValidate_MissingReturn(t *testing.T) {
	d := wordCountDraft(
		"split the text by spaces",
		"count the resulting elements",
	)
	issues := Validate(d)

	iss := issueByCode(issues, IssueMissingReturn)
	require.NotNil(t, iss, "expected missing_return, got %v", issues)
	assert.Equal(t, session.SeverityError, iss.Severity)

	// A blocking issue forces the draft invalid.
	result := &session.ValidationResult{SemanticIssues: issues}
	assert.Equal(t, session.StatusInvalid, result.Derive())
}

func TestValidate_TrailingReturnSatisfies(t *testing.T) {
	d := wordCountDraft(
		"split the text by spaces",
		"count the resulting elements",
		"return the count",
	)
	issues := Validate(d)
	assert.Nil(t, issueByCode(issues, IssueMissingReturn), "unexpected issues: %v", issues)

	result := &session.ValidationResult{SemanticIssues: issues}
	assert.Equal(t, session.StatusValid, result.Derive())
}

func TestValidate_VoidSignatureNeedsNoReturn(t *testing.T) {
	d := wordCountDraft("split the text by spaces")
	d.Signature.ReturnType = ir.Concrete("void")
	issues := Validate(d)
	assert.Nil(t, issueByCode(issues, IssueMissingReturn))
}

func TestValidate_TypeMismatchIsWarning(t *testing.T) {
	d := wordCountDraft(
		"split the text by spaces",
		"count the resulting elements",
		"return the count",
	)
	d.Signature.ReturnType = ir.Concrete("bool")
	issues := Validate(d)

	iss := issueByCode(issues, IssueTypeMismatch)
	require.NotNil(t, iss, "expected type_mismatch, got %v", issues)
	assert.Equal(t, session.SeverityWarning, iss.Severity)

	// Warnings never block validity on their own.
	result := &session.ValidationResult{SemanticIssues: issues}
	assert.Equal(t, session.StatusValid, result.Derive())
}

func TestValidate_ReturnLiteralBool(t *testing.T) {
	d := wordCountDraft(
		"check that the text is not empty",
		"return true if the check passed",
	)
	d.Signature.ReturnType = ir.Concrete("bool")
	issues := Validate(d)
	assert.Nil(t, issueByCode(issues, IssueTypeMismatch))
	assert.Nil(t, issueByCode(issues, IssueMissingReturn))
}

func TestValidate_OffByOne(t *testing.T) {
	d := wordCountDraft(
		"split the text by spaces",
		"iterate over the parts looking for a match",
		"return the count",
	)
	d.Intent.Summary = ir.Concrete("finds the first occurrence of a word")

	issues := Validate(d)
	iss := issueByCode(issues, IssueOffByOne)
	require.NotNil(t, iss, "expected off_by_one, got %v", issues)
	assert.Equal(t, session.SeverityWarning, iss.Severity)
	assert.Equal(t, 1, iss.Effect)
}

func TestValidate_BoundedIterationIsClean(t *testing.T) {
	d := wordCountDraft(
		"split the text by spaces",
		"iterate over the parts and stop at the first match",
		"return the count",
	)
	d.Intent.Summary = ir.Concrete("finds the first occurrence of a word")
	assert.Nil(t, issueByCode(Validate(d), IssueOffByOne))
}

func TestValidate_EmailValidatorOrdering(t *testing.T) {
	d := &ir.IR{
		Intent: ir.Intent{Summary: ir.Concrete("validates an email address")},
		Signature: ir.Signature{
			Name:       ir.Concrete("validate"),
			Params:     []ir.Param{{Name: ir.Concrete("email"), Type: ir.Concrete("string")}},
			ReturnType: ir.Concrete("bool"),
		},
		Effects: []ir.Effect{
			{Describe: ir.Concrete("check the email contains @")},
			{Describe: ir.Concrete("check the email contains a dot")},
			{Describe: ir.Concrete("return true if both checks passed")},
		},
	}
	issues := Validate(d)
	iss := issueByCode(issues, IssueInvalidLogic)
	require.NotNil(t, iss, "expected invalid_logic, got %v", issues)
	assert.Equal(t, session.SeverityWarning, iss.Severity)
}

func TestValidate_EmailValidatorWithOrderingIsClean(t *testing.T) {
	d := &ir.IR{
		Intent: ir.Intent{Summary: ir.Concrete("validates an email address")},
		Signature: ir.Signature{
			Name:       ir.Concrete("validate"),
			Params:     []ir.Param{{Name: ir.Concrete("email"), Type: ir.Concrete("string")}},
			ReturnType: ir.Concrete("bool"),
		},
		Effects: []ir.Effect{
			{Describe: ir.Concrete("check the email contains @")},
			{Describe: ir.Concrete("check a dot appears after the @")},
			{Describe: ir.Concrete("return true if both checks passed")},
		},
	}
	assert.Nil(t, issueByCode(Validate(d), IssueInvalidLogic))
}

func TestValidate_UnparsableEffectIsNonBlocking(t *testing.T) {
	d := wordCountDraft(
		"the quick brown fox jumps over the lazy dog",
		"split the text by spaces",
		"count the resulting elements",
		"return the count",
	)
	issues := Validate(d)

	iss := issueByCode(issues, IssueParseIncomplete)
	require.NotNil(t, iss, "expected parse_incomplete, got %v", issues)
	assert.Equal(t, session.SeverityWarning, iss.Severity)
	assert.Equal(t, 0, iss.Effect)

	result := &session.ValidationResult{SemanticIssues: issues}
	assert.Equal(t, session.StatusValid, result.Derive())
}

func TestValidate_HoleEffectsAreSkipped(t *testing.T) {
	d := wordCountDraft("split the text by spaces")
	d.Effects = append(d.Effects, ir.Effect{Describe: ir.OpenSlot("h-1")})
	d.AddHole(ir.Hole{ID: "h-1", Detail: ir.EffectDetail{}})
	d.Signature.ReturnType = ir.Concrete("void")

	issues := Validate(d)
	assert.Nil(t, issueByCode(issues, IssueParseIncomplete))
}

func TestAnalyzeChain_SeedsParameters(t *testing.T) {
	d := wordCountDraft()
	chain, issues := AnalyzeChain(d)
	assert.Empty(t, issues)

	sym, ok := chain.Symbols["text"]
	require.True(t, ok)
	assert.Equal(t, "string", sym.TypeHint)
	assert.Equal(t, SourceParameter, sym.Source)
}

func TestAnalyzeChain_ProvenanceThreadsThrough(t *testing.T) {
	d := wordCountDraft(
		"split the text by spaces",
		"count the resulting elements",
	)
	chain, _ := AnalyzeChain(d)

	parts, ok := chain.Symbols["parts"]
	require.True(t, ok)
	assert.Equal(t, "list", parts.TypeHint)
	assert.Equal(t, SourceComputed, parts.Source)
	assert.Equal(t, []string{"split the text by spaces"}, parts.Provenance)

	count, ok := chain.Symbols["count"]
	require.True(t, ok)
	assert.Equal(t, "int", count.TypeHint)
}

func TestParseEffect_VerbByWordOrder(t *testing.T) {
	tests := []struct {
		text string
		kind OpKind
	}{
		{"return the count", OpReturn},
		{"check that the count is positive", OpCheck},
		{"count the matching entries", OpCount},
		{"split the line by commas", OpSplit},
		{"iterate over every entry until the first match", OpIterate},
	}
	for _, tt := range tests {
		op, ok := ParseEffect(tt.text, nil)
		require.True(t, ok, tt.text)
		assert.Equal(t, tt.kind, op.Kind, tt.text)
	}
}

func TestParseEffect_NoVerb(t *testing.T) {
	_, ok := ParseEffect("a sentence with no recognized operation", nil)
	assert.False(t, ok)
}
