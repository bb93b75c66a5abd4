package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// draftWithHoles builds a draft with holes at a mix of positions:
// intent summary, the second parameter's type, and a trailing effect.
func draftWithHoles() *IR {
	d := &IR{
		Intent: Intent{Summary: OpenSlot("h-intent")},
		Signature: Signature{
			Name: Concrete("validate"),
			Params: []Param{
				{Name: Concrete("email"), Type: Concrete("string")},
				{Name: Concrete("strict"), Type: OpenSlot("h-type")},
			},
			ReturnType: Concrete("bool"),
		},
		Effects: []Effect{
			{Describe: Concrete("check the input is non-empty")},
			{Describe: OpenSlot("h-effect")},
		},
	}
	d.AddHole(Hole{ID: "h-intent", Detail: IntentDetail{}})
	d.AddHole(Hole{ID: "h-type", Detail: SignatureDetail{Slot: SlotParamType}})
	d.AddHole(Hole{ID: "h-effect", Detail: EffectDetail{}})
	return d
}

func TestOpenHoles_WalkOrder(t *testing.T) {
	d := draftWithHoles()
	assert.Equal(t, []string{"h-intent", "h-type", "h-effect"}, d.OpenHoles())
}

func TestOpenHoles_EmptyDraft(t *testing.T) {
	d := &IR{}
	assert.Empty(t, d.OpenHoles())
}

func TestSlotForHole(t *testing.T) {
	d := draftWithHoles()

	s, ok := d.SlotForHole("h-type")
	require.True(t, ok)
	assert.Same(t, &d.Signature.Params[1].Type, s)

	_, ok = d.SlotForHole("nope")
	assert.False(t, ok)
}

func TestCheckInvariants_Valid(t *testing.T) {
	require.NoError(t, draftWithHoles().CheckInvariants())
}

func TestCheckInvariants_DuplicateID(t *testing.T) {
	d := draftWithHoles()
	d.AddHole(Hole{ID: "h-intent", Detail: IntentDetail{}, Status: HoleResolved})
	assert.ErrorContains(t, d.CheckInvariants(), "duplicate hole id")
}

func TestCheckInvariants_DanglingSlot(t *testing.T) {
	d := draftWithHoles()
	d.Effects = append(d.Effects, Effect{Describe: OpenSlot("h-ghost")})
	assert.ErrorContains(t, d.CheckInvariants(), "unknown hole")
}

func TestCheckInvariants_OrphanOpenHole(t *testing.T) {
	d := draftWithHoles()
	// Resolve the slot but leave the table entry open.
	d.Intent.Summary = Concrete("validates an email address")
	assert.ErrorContains(t, d.CheckInvariants(), "not embedded")
}

func TestClone_Independent(t *testing.T) {
	d := draftWithHoles()
	c := d.Clone()

	c.Signature.Params[0].Name = Concrete("address")
	c.Holes[0].Status = HoleResolved
	c.Effects[0].Describe = Concrete("mutated")

	assert.Equal(t, "email", d.Signature.Params[0].Name.Value)
	assert.Equal(t, HoleOpen, d.Holes[0].Status)
	assert.Equal(t, "check the input is non-empty", d.Effects[0].Describe.Value)
}

func TestPruneResolved(t *testing.T) {
	d := draftWithHoles()
	for i := range d.Holes {
		d.Holes[i].Status = HoleResolved
	}
	d.PruneResolved()
	assert.Empty(t, d.Holes)
}
