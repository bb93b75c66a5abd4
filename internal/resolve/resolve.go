// Package resolve implements the hole resolution protocol: applying a
// single typed resolution to a session's draft in place, spawning any
// follow-up holes the resolution introduces, and recomputing the ambiguity
// set by full rescan.
//
// Failure is side-effect-free: every check runs before the first mutation,
// so a rejected resolution leaves the draft byte-for-byte unchanged.
package resolve

import (
	"fmt"
	"strings"
	"time"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// Accepts reports whether the resolution type belongs to the compatibility
// set for the hole's kind. The match is exhaustive over the sealed Detail
// union; each kind accepts exactly one type.
func Accepts(d ir.Detail, rt session.ResolutionType) bool {
	switch d.(type) {
	case ir.IntentDetail:
		return rt == session.ClarifyIntent
	case ir.SignatureDetail:
		return rt == session.RefineSignature
	case ir.EffectDetail:
		return rt == session.SpecifyEffect
	case ir.AssertionDetail:
		return rt == session.AddConstraint
	default:
		return false
	}
}

// Apply resolves one hole on the session in place.
//
// Protocol:
//  1. Reject mutations on finalized sessions (SESSION_FINALIZED).
//  2. Reject hole ids outside the ambiguity set (HOLE_NOT_FOUND).
//  3. Reject resolution types incompatible with the hole's kind
//     (INVALID_RESOLUTION_TYPE).
//  4. Reject resolution text the hole cannot record: empty text, or
//     markers on an intent/signature hole that are not the entire text
//     (INVALID_RESOLUTION_TEXT). Those holes own a single slot, so a
//     marker can only re-open that slot; it has nowhere to append a
//     follow-up, and dropping it silently would lose the author's note.
//  5. Replace the placeholder in its exact slot with content derived from
//     the resolution text.
//  6. Spawn follow-up holes for any {?...?} markers in the text.
//  7. Recompute the ambiguity set from scratch by rescanning the draft.
//  8. Append a ResolutionRecord and mark validation stale (pending).
//
// Validation itself is not run here; callers re-validate explicitly or the
// engine does so lazily before finalize.
func Apply(s *session.Session, holeID, text string, rt session.ResolutionType, now time.Time, newID func() string) error {
	if s.State == session.StateFinalized {
		return session.NewSessionFinalized(s.ID)
	}
	if !s.HasAmbiguity(holeID) {
		return session.NewHoleNotFound(s.ID, holeID)
	}
	hole, ok := s.Draft.HoleByID(holeID)
	if !ok {
		// Ambiguities drifted from the draft; Rescan after every mutation
		// makes this unreachable.
		return session.NewHoleNotFound(s.ID, holeID)
	}
	if !Accepts(hole.Detail, rt) {
		return session.NewInvalidResolutionType(s.ID, holeID, rt, string(hole.Detail.Kind()))
	}
	slot, ok := s.Draft.SlotForHole(holeID)
	if !ok {
		return session.NewHoleNotFound(s.ID, holeID)
	}

	clean, markers := SplitMarkers(text)
	if clean == "" && len(markers) == 0 {
		return session.NewInvalidResolutionText(s.ID, holeID, "resolution text is empty")
	}
	switch hole.Detail.(type) {
	case ir.IntentDetail, ir.SignatureDetail:
		if len(markers) > 0 && (clean != "" || len(markers) > 1) {
			return session.NewInvalidResolutionText(s.ID, holeID,
				"a marker must be the entire resolution text for this hole's kind")
		}
	}

	newHoles, err := apply(s.Draft, hole, slot, clean, markers, newID)
	if err != nil {
		return err
	}
	hole.Status = ir.HoleResolved

	// Full rescan - never adjust the set incrementally, so the invariant
	// holds even when a resolution's side effects were misjudged.
	s.Rescan()

	s.History = append(s.History, session.ResolutionRecord{
		HoleID:    holeID,
		Text:      text,
		Type:      rt,
		Timestamp: now,
		NewHoles:  newHoles,
	})
	s.ValidationStatus = session.StatusPending
	return nil
}

// apply writes the concrete content into the slot and materializes
// follow-up holes. Returns the ids of holes introduced.
func apply(draft *ir.IR, hole *ir.Hole, slot *ir.Slot, clean string, markers []string, newID func() string) ([]string, error) {
	var newHoles []string

	reopen := func(detail ir.Detail, description string) {
		id := newID()
		*slot = ir.OpenSlot(id)
		draft.AddHole(ir.Hole{ID: id, Detail: detail, Description: description})
		newHoles = append(newHoles, id)
	}

	switch detail := hole.Detail.(type) {
	case ir.IntentDetail:
		if clean == "" {
			reopen(detail, markers[0])
			return newHoles, nil
		}
		*slot = ir.Concrete(clean)

	case ir.SignatureDetail:
		if clean == "" {
			reopen(detail, markers[0])
			return newHoles, nil
		}
		applySignature(draft, detail, slot, clean)

	case ir.EffectDetail:
		if clean != "" {
			*slot = ir.Concrete(clean)
		} else {
			reopen(detail, markers[0])
			markers = markers[1:]
		}
		// Remaining markers become appended behavioral steps that still
		// need specification.
		for _, m := range markers {
			id := newID()
			draft.Effects = append(draft.Effects, ir.Effect{Describe: ir.OpenSlot(id)})
			draft.AddHole(ir.Hole{ID: id, Detail: ir.EffectDetail{}, Description: m})
			newHoles = append(newHoles, id)
		}

	case ir.AssertionDetail:
		if clean != "" {
			*slot = ir.Concrete(clean)
		} else {
			reopen(detail, markers[0])
			markers = markers[1:]
		}
		// A constraint that references an as-yet-unspecified condition
		// spawns a dependent assertion hole.
		for _, m := range markers {
			id := newID()
			draft.Assertions = append(draft.Assertions, ir.Assertion{Predicate: ir.OpenSlot(id)})
			draft.AddHole(ir.Hole{ID: id, Detail: ir.AssertionDetail{}, Description: m})
			newHoles = append(newHoles, id)
		}

	default:
		return nil, fmt.Errorf("unknown hole detail %T", hole.Detail)
	}

	return newHoles, nil
}

// applySignature replaces exactly the signature position the hole occupies.
// A param-name hole additionally accepts a "name type" pair, filling the
// parameter's type when that type is still blank.
func applySignature(draft *ir.IR, detail ir.SignatureDetail, slot *ir.Slot, clean string) {
	switch detail.Slot {
	case ir.SlotParamName:
		fields := strings.Fields(clean)
		*slot = ir.Concrete(fields[0])
		if len(fields) > 1 {
			if p := paramForNameSlot(draft, slot); p != nil && !p.Type.IsHole() && p.Type.Value == "" {
				p.Type = ir.Concrete(fields[1])
			}
		}
	default:
		// Function name, param type, return type: the text is the content.
		*slot = ir.Concrete(strings.TrimSpace(clean))
	}
}

// paramForNameSlot finds the parameter whose Name field is the given slot.
func paramForNameSlot(draft *ir.IR, slot *ir.Slot) *ir.Param {
	for i := range draft.Signature.Params {
		if &draft.Signature.Params[i].Name == slot {
			return &draft.Signature.Params[i]
		}
	}
	return nil
}
