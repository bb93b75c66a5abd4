package ir

import "fmt"

// slots returns pointers to every slot in the draft in canonical walk order:
// intent summary, signature name, each parameter (name then type), return
// type, effects in sequence, then assertions in sequence.
//
// All hole discovery goes through this walk so that rescans and in-place
// resolution agree on ordering.
func (d *IR) slots() []*Slot {
	out := []*Slot{&d.Intent.Summary, &d.Signature.Name}
	for i := range d.Signature.Params {
		out = append(out, &d.Signature.Params[i].Name, &d.Signature.Params[i].Type)
	}
	out = append(out, &d.Signature.ReturnType)
	for i := range d.Effects {
		out = append(out, &d.Effects[i].Describe)
	}
	for i := range d.Assertions {
		out = append(out, &d.Assertions[i].Predicate)
	}
	return out
}

// OpenHoles rescans the draft and returns the ids of all unresolved holes
// in canonical walk order. This is the single source of truth for a
// session's ambiguity set: callers recompute from scratch after every
// mutation instead of maintaining the set incrementally.
func (d *IR) OpenHoles() []string {
	var ids []string
	for _, s := range d.slots() {
		if s.IsHole() {
			ids = append(ids, s.HoleID)
		}
	}
	return ids
}

// HoleByID returns the hole table entry with the given id.
func (d *IR) HoleByID(id string) (*Hole, bool) {
	for i := range d.Holes {
		if d.Holes[i].ID == id {
			return &d.Holes[i], true
		}
	}
	return nil, false
}

// SlotForHole returns the slot currently referencing the given hole id.
func (d *IR) SlotForHole(id string) (*Slot, bool) {
	for _, s := range d.slots() {
		if s.HoleID == id {
			return s, true
		}
	}
	return nil, false
}

// CheckInvariants verifies the structural invariants that every mutating
// operation must preserve:
//   - hole ids are unique within the draft,
//   - every slot hole reference has an open entry in the hole table,
//   - every open table entry is referenced by exactly one slot.
func (d *IR) CheckInvariants() error {
	seen := make(map[string]bool, len(d.Holes))
	for _, h := range d.Holes {
		if h.ID == "" {
			return fmt.Errorf("hole with empty id")
		}
		if h.Detail == nil {
			return fmt.Errorf("hole %q has no detail", h.ID)
		}
		if seen[h.ID] {
			return fmt.Errorf("duplicate hole id %q", h.ID)
		}
		seen[h.ID] = true
	}

	referenced := make(map[string]int)
	for _, s := range d.slots() {
		if !s.IsHole() {
			continue
		}
		if s.Value != "" {
			return fmt.Errorf("slot for hole %q also carries a value", s.HoleID)
		}
		h, ok := d.HoleByID(s.HoleID)
		if !ok {
			return fmt.Errorf("slot references unknown hole %q", s.HoleID)
		}
		if h.Status != HoleOpen {
			return fmt.Errorf("slot references hole %q with status %q", s.HoleID, h.Status)
		}
		referenced[s.HoleID]++
	}
	for id, n := range referenced {
		if n > 1 {
			return fmt.Errorf("hole %q referenced by %d slots", id, n)
		}
	}
	for _, h := range d.Holes {
		if h.Status == HoleOpen && referenced[h.ID] == 0 {
			return fmt.Errorf("open hole %q is not embedded in any slot", h.ID)
		}
	}
	return nil
}

// AddHole appends a hole record to the table. The caller is responsible for
// embedding a matching slot reference.
func (d *IR) AddHole(h Hole) {
	if h.Status == "" {
		h.Status = HoleOpen
	}
	d.Holes = append(d.Holes, h)
}

// PruneResolved drops resolved entries from the hole table. Used when
// exporting a finalized IR, which must carry no hole fields at all.
func (d *IR) PruneResolved() {
	var kept []Hole
	for _, h := range d.Holes {
		if h.Status == HoleOpen {
			kept = append(kept, h)
		}
	}
	d.Holes = kept
}
