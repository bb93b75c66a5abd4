package ir

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which IR field family a hole occupies.
type Kind string

const (
	KindIntent    Kind = "intent"
	KindSignature Kind = "signature"
	KindEffect    Kind = "effect"
	KindAssertion Kind = "assertion"
)

// HoleStatus tracks whether a hole is still awaiting resolution.
type HoleStatus string

const (
	HoleOpen     HoleStatus = "open"
	HoleResolved HoleStatus = "resolved"
)

// SignatureSlot names the specific position a signature hole occupies.
type SignatureSlot string

const (
	SlotFunctionName SignatureSlot = "name"
	SlotParamName    SignatureSlot = "param_name"
	SlotParamType    SignatureSlot = "param_type"
	SlotReturnType   SignatureSlot = "return_type"
)

// Detail is a sealed interface representing the hole-kind sum type.
// Only IntentDetail, SignatureDetail, EffectDetail, and AssertionDetail
// implement it. Code that dispatches on hole kind type-switches over this
// union, which keeps "wrong resolution for this kind" an exhaustiveness
// problem rather than a string comparison.
type Detail interface {
	holeDetail() // Sealed - only these types implement it
	Kind() Kind
}

// IntentDetail marks a hole in the intent summary.
type IntentDetail struct{}

func (IntentDetail) holeDetail() {}

// Kind returns KindIntent.
func (IntentDetail) Kind() Kind { return KindIntent }

// SignatureDetail marks a hole in the signature. Slot records which
// signature position the hole occupies so a refinement replaces exactly
// that position, not an adjacent one.
type SignatureDetail struct {
	Slot SignatureSlot `json:"slot"`
}

func (SignatureDetail) holeDetail() {}

// Kind returns KindSignature.
func (SignatureDetail) Kind() Kind { return KindSignature }

// EffectDetail marks a hole standing in for a behavioral step.
type EffectDetail struct{}

func (EffectDetail) holeDetail() {}

// Kind returns KindEffect.
func (EffectDetail) Kind() Kind { return KindEffect }

// AssertionDetail marks a hole standing in for an assertion predicate.
type AssertionDetail struct{}

func (AssertionDetail) holeDetail() {}

// Kind returns KindAssertion.
func (AssertionDetail) Kind() Kind { return KindAssertion }

// Hole is the metadata record for one placeholder. The placeholder itself
// is the Slot in the draft that references this record by id.
//
// Holes are immutable once created except for Status.
type Hole struct {
	ID          string            `json:"id"`
	Detail      Detail            `json:"-"`
	Description string            `json:"description,omitempty"`
	Constraints map[string]string `json:"constraints,omitempty"`
	Status      HoleStatus        `json:"status"`
}

// holeJSON is the wire shape for Hole. The Detail union flattens to a kind
// tag plus the signature slot when present.
type holeJSON struct {
	ID          string            `json:"id"`
	Kind        Kind              `json:"kind"`
	Slot        SignatureSlot     `json:"slot,omitempty"`
	Description string            `json:"description,omitempty"`
	Constraints map[string]string `json:"constraints,omitempty"`
	Status      HoleStatus        `json:"status"`
}

// MarshalJSON implements json.Marshaler for Hole.
func (h Hole) MarshalJSON() ([]byte, error) {
	if h.Detail == nil {
		return nil, fmt.Errorf("hole %q has no detail", h.ID)
	}
	out := holeJSON{
		ID:          h.ID,
		Kind:        h.Detail.Kind(),
		Description: h.Description,
		Constraints: h.Constraints,
		Status:      h.Status,
	}
	if sd, ok := h.Detail.(SignatureDetail); ok {
		out.Slot = sd.Slot
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler for Hole.
func (h *Hole) UnmarshalJSON(data []byte) error {
	var raw holeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	detail, err := detailForKind(raw.Kind, raw.Slot)
	if err != nil {
		return fmt.Errorf("hole %q: %w", raw.ID, err)
	}
	h.ID = raw.ID
	h.Detail = detail
	h.Description = raw.Description
	h.Constraints = raw.Constraints
	h.Status = raw.Status
	if h.Status == "" {
		h.Status = HoleOpen
	}
	return nil
}

// detailForKind reconstructs the Detail variant from its wire tag.
func detailForKind(kind Kind, slot SignatureSlot) (Detail, error) {
	switch kind {
	case KindIntent:
		return IntentDetail{}, nil
	case KindSignature:
		if slot == "" {
			return nil, fmt.Errorf("signature hole missing slot")
		}
		return SignatureDetail{Slot: slot}, nil
	case KindEffect:
		return EffectDetail{}, nil
	case KindAssertion:
		return AssertionDetail{}, nil
	default:
		return nil, fmt.Errorf("unknown hole kind %q", kind)
	}
}
