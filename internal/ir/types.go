package ir

// IR represents a structured specification under refinement: what the
// implementation is for (intent), its shape (signature), what it does
// (effects), and what must hold (assertions).
//
// An IR is owned exclusively by its session. The Holes table carries the
// metadata for every placeholder embedded in the other fields; the embedded
// Slot values reference table entries by id.
type IR struct {
	Intent     Intent      `json:"intent"`
	Signature  Signature   `json:"signature"`
	Effects    []Effect    `json:"effects"`
	Assertions []Assertion `json:"assertions,omitempty"`
	Metadata   Metadata    `json:"metadata"`
	Holes      []Hole      `json:"holes,omitempty"`
}

// Intent summarizes what the described implementation is for.
type Intent struct {
	Summary   Slot   `json:"summary"`
	Rationale string `json:"rationale,omitempty"`
}

// Signature describes the callable shape: name, ordered parameters, return.
type Signature struct {
	Name       Slot    `json:"name"`
	Params     []Param `json:"params"`
	ReturnType Slot    `json:"return_type"`
}

// Param is a single named, typed parameter. Name and Type can each be an
// open hole independently.
type Param struct {
	Name        Slot   `json:"name"`
	Type        Slot   `json:"type"`
	Description string `json:"description,omitempty"`
}

// Effect is one atomic step of behavior, in execution order.
type Effect struct {
	Describe Slot `json:"describe"`
}

// Assertion is a behavioral predicate with its rationale.
type Assertion struct {
	Predicate Slot   `json:"predicate"`
	Rationale string `json:"rationale,omitempty"`
}

// Metadata records where the IR came from and the evidence behind it.
type Metadata struct {
	Origin     string   `json:"origin,omitempty"`
	Provenance string   `json:"provenance,omitempty"`
	Evidence   []string `json:"evidence,omitempty"`
}

// Slot is the in-place placeholder mechanism. A slot holds either concrete
// text (Value) or a reference to an open hole (HoleID), never both.
type Slot struct {
	Value  string `json:"value,omitempty"`
	HoleID string `json:"hole,omitempty"`
}

// Concrete returns a slot holding concrete text.
func Concrete(v string) Slot {
	return Slot{Value: v}
}

// OpenSlot returns a slot referencing the hole with the given id.
func OpenSlot(holeID string) Slot {
	return Slot{HoleID: holeID}
}

// IsHole reports whether the slot is an unresolved placeholder.
func (s Slot) IsHole() bool {
	return s.HoleID != ""
}
