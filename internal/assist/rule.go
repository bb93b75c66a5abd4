package assist

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// RuleDrafter is a deterministic drafter built on prompt patterns. It
// recognizes prompts of the shape "a function called X that takes a string
// email and returns bool"; whatever a prompt leaves unsaid becomes a hole.
type RuleDrafter struct {
	newID func() string
	seq   int
}

// NewRuleDrafter creates a drafter. newID mints hole ids; pass nil to use
// a per-drafter counter.
func NewRuleDrafter(newID func() string) *RuleDrafter {
	d := &RuleDrafter{}
	if newID == nil {
		newID = func() string {
			d.seq++
			return fmt.Sprintf("h-%d", d.seq)
		}
	}
	d.newID = newID
	return d
}

var (
	nameRe    = regexp.MustCompile(`(?i)\b(?:function|method|procedure|routine)\s+(?:called|named)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	takesRe   = regexp.MustCompile(`(?i)\b(?:takes|taking|accepts|accepting)\b(.*?)(?:\band\s+returns?\b|\breturn(?:s|ing)\b|$)`)
	paramRe   = regexp.MustCompile(`(?i)\b(?:a|an|one)?\s*(string|integer|int|boolean|bool|float|number|list|map)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	returnsRe = regexp.MustCompile(`(?i)\breturn(?:s|ing)?\s+(?:a\s+|an\s+|the\s+)?([A-Za-z][A-Za-z0-9_]*)`)
)

// ProposeInitialDraft implements Drafter.
func (d *RuleDrafter) ProposeInitialDraft(_ context.Context, prompt string) (*ir.IR, error) {
	prompt = strings.TrimSpace(prompt)
	draft := &ir.IR{
		Metadata: ir.Metadata{Origin: prompt, Provenance: "rule-drafter"},
	}

	if prompt == "" {
		id := d.newID()
		draft.Intent.Summary = ir.OpenSlot(id)
		draft.AddHole(ir.Hole{
			ID:          id,
			Detail:      ir.IntentDetail{},
			Description: "state what the implementation is for",
		})
	} else {
		draft.Intent.Summary = ir.Concrete(prompt)
	}

	if m := nameRe.FindStringSubmatch(prompt); m != nil {
		draft.Signature.Name = ir.Concrete(m[1])
	} else {
		id := d.newID()
		draft.Signature.Name = ir.OpenSlot(id)
		draft.AddHole(ir.Hole{
			ID:          id,
			Detail:      ir.SignatureDetail{Slot: ir.SlotFunctionName},
			Description: "name the function",
		})
	}

	draft.Signature.Params = d.parseParams(draft, prompt)

	if m := returnsRe.FindStringSubmatch(prompt); m != nil {
		draft.Signature.ReturnType = ir.Concrete(normalizeType(m[1]))
	} else {
		id := d.newID()
		draft.Signature.ReturnType = ir.OpenSlot(id)
		draft.AddHole(ir.Hole{
			ID:          id,
			Detail:      ir.SignatureDetail{Slot: ir.SlotReturnType},
			Description: "state the return type, or void",
		})
	}

	// A prompt never spells out the behavioral steps; the first effect is
	// always a hole.
	effID := d.newID()
	draft.Effects = []ir.Effect{{Describe: ir.OpenSlot(effID)}}
	draft.AddHole(ir.Hole{
		ID:          effID,
		Detail:      ir.EffectDetail{},
		Description: "describe the first behavioral step",
	})

	if err := draft.CheckInvariants(); err != nil {
		return nil, err
	}
	return draft, nil
}

func (d *RuleDrafter) parseParams(draft *ir.IR, prompt string) []ir.Param {
	m := takesRe.FindStringSubmatch(prompt)
	if m == nil {
		return nil
	}
	clause := m[1]
	var params []ir.Param
	for _, pm := range paramRe.FindAllStringSubmatch(clause, -1) {
		params = append(params, ir.Param{
			Name: ir.Concrete(strings.ToLower(pm[2])),
			Type: ir.Concrete(normalizeType(pm[1])),
		})
	}
	if len(params) == 0 {
		// The prompt says it takes something but not what. One parameter
		// with both positions open.
		nameID := d.newID()
		typeID := d.newID()
		params = append(params, ir.Param{
			Name: ir.OpenSlot(nameID),
			Type: ir.OpenSlot(typeID),
		})
		draft.AddHole(ir.Hole{
			ID:          nameID,
			Detail:      ir.SignatureDetail{Slot: ir.SlotParamName},
			Description: "name the parameter",
		})
		draft.AddHole(ir.Hole{
			ID:          typeID,
			Detail:      ir.SignatureDetail{Slot: ir.SlotParamType},
			Description: "type the parameter",
		})
	}
	return params
}

// SuggestResolutions implements Drafter. Suggestions are derived from what
// the draft already pins down, so they stay deterministic.
func (d *RuleDrafter) SuggestResolutions(_ context.Context, s *session.Session, holeIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, id := range holeIDs {
		h, ok := s.Draft.HoleByID(id)
		if !ok || h.Status != ir.HoleOpen {
			continue
		}
		if sug := suggestFor(s, h); len(sug) > 0 {
			out[id] = sug
		}
	}
	return out, nil
}

func suggestFor(s *session.Session, h *ir.Hole) []string {
	switch det := h.Detail.(type) {
	case ir.IntentDetail:
		if p := strings.TrimSpace(s.Origin.Prompt); p != "" {
			return []string{p}
		}
	case ir.SignatureDetail:
		switch det.Slot {
		case ir.SlotReturnType, ir.SlotParamType:
			return []string{"bool", "int", "string"}
		}
	case ir.EffectDetail:
		if rt := s.Draft.Signature.ReturnType; !rt.IsHole() && rt.Value != "" && rt.Value != "void" {
			return []string{"return the " + rt.Value}
		}
	case ir.AssertionDetail:
		if rt := s.Draft.Signature.ReturnType; rt.Value == "bool" {
			return []string{"result == true"}
		}
	}
	return nil
}

func normalizeType(t string) string {
	switch strings.ToLower(t) {
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "number":
		return "float"
	case "nothing", "void":
		return "void"
	default:
		return strings.ToLower(t)
	}
}
