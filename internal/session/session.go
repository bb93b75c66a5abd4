package session

import (
	"time"

	"github.com/mortise/tenon/internal/ir"
)

// State is the session lifecycle state. The only transition is
// StateDraft -> StateFinalized; there is no way back. Editing a finalized
// specification means creating a new session seeded from its export.
type State string

const (
	StateDraft     State = "draft"
	StateFinalized State = "finalized"
)

// OriginKind distinguishes how a session's initial draft was produced.
type OriginKind string

const (
	// OriginPrompt - the draft was proposed from natural-language prompt text.
	OriginPrompt OriginKind = "prompt"
	// OriginReverse - the draft was lifted from existing source (reverse mode).
	OriginReverse OriginKind = "reverse"
)

// Origin records where a session's initial draft came from.
type Origin struct {
	Kind   OriginKind `json:"kind"`
	Prompt string     `json:"prompt,omitempty"`
	Source string     `json:"source,omitempty"`
}

// ResolutionType tags how resolution text should be interpreted. Each hole
// kind accepts exactly one resolution type; the compatibility table lives in
// the resolve package as an exhaustive match over ir.Detail.
type ResolutionType string

const (
	ClarifyIntent   ResolutionType = "clarify_intent"
	RefineSignature ResolutionType = "refine_signature"
	SpecifyEffect   ResolutionType = "specify_effect"
	AddConstraint   ResolutionType = "add_constraint"
)

// ResolutionRecord is one entry in a session's resolution history.
type ResolutionRecord struct {
	HoleID    string         `json:"hole_id"`
	Text      string         `json:"resolution_text"`
	Type      ResolutionType `json:"resolution_type"`
	Timestamp time.Time      `json:"timestamp"`
	NewHoles  []string       `json:"new_holes_introduced,omitempty"`
}

// Session owns one evolving specification draft.
//
// INVARIANTS (enforced by every mutating operation):
//  1. Hole ids are unique within Draft.
//  2. Ambiguities is exactly the set of open holes embedded in Draft,
//     recomputed by full rescan after every mutation - never maintained
//     incrementally.
//  3. A failed mutation leaves Draft byte-for-byte unchanged.
//  4. State transitions only draft -> finalized, and only when
//     Ambiguities is empty and ValidationStatus is StatusValid.
//  5. Once finalized, Draft is immutable.
type Session struct {
	ID               string             `json:"session_id"`
	Origin           Origin             `json:"origin"`
	Draft            *ir.IR             `json:"current_draft"`
	Ambiguities      []string           `json:"ambiguities"`
	History          []ResolutionRecord `json:"resolution_history"`
	ValidationStatus ValidationStatus   `json:"validation_status"`
	LastValidation   *ValidationResult  `json:"last_validation,omitempty"`
	Metadata         map[string]string  `json:"metadata,omitempty"`
	State            State              `json:"state"`
}

// Summary is the listing projection of a session.
type Summary struct {
	ID               string           `json:"session_id"`
	OriginKind       OriginKind       `json:"origin_kind"`
	State            State            `json:"state"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	OpenHoles        int              `json:"open_holes"`
}

// Summarize returns the listing projection.
func (s *Session) Summarize() Summary {
	return Summary{
		ID:               s.ID,
		OriginKind:       s.Origin.Kind,
		State:            s.State,
		ValidationStatus: s.ValidationStatus,
		OpenHoles:        len(s.Ambiguities),
	}
}

// Rescan recomputes Ambiguities from the draft's actual content. Every
// mutating operation ends with a Rescan; nothing else may assign
// Ambiguities.
func (s *Session) Rescan() {
	s.Ambiguities = s.Draft.OpenHoles()
}

// HasAmbiguity reports whether the given hole id is currently unresolved.
func (s *Session) HasAmbiguity(holeID string) bool {
	for _, id := range s.Ambiguities {
		if id == holeID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Stores hand out and accept full snapshots, so
// a caller's mutations never alias stored state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		ID:               s.ID,
		Origin:           s.Origin,
		Draft:            s.Draft.Clone(),
		ValidationStatus: s.ValidationStatus,
		State:            s.State,
	}
	if s.Ambiguities != nil {
		out.Ambiguities = append([]string(nil), s.Ambiguities...)
	}
	if s.History != nil {
		out.History = make([]ResolutionRecord, len(s.History))
		for i, r := range s.History {
			out.History[i] = r
			if r.NewHoles != nil {
				out.History[i].NewHoles = append([]string(nil), r.NewHoles...)
			}
		}
	}
	if s.Metadata != nil {
		out.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	if s.LastValidation != nil {
		out.LastValidation = s.LastValidation.Clone()
	}
	return out
}
