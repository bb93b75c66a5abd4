package session

import (
	"encoding/json"
	"fmt"
)

// Export serializes the session to its persisted representation: session id,
// origin, full current draft, ambiguity list, resolution history, validation
// status, metadata, and state.
func (s *Session) Export() ([]byte, error) {
	// Snapshot so the empty-slice normalization below never touches the
	// live session.
	c := s.Clone()
	if c.Ambiguities == nil {
		c.Ambiguities = []string{}
	}
	if c.History == nil {
		c.History = []ResolutionRecord{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export session %s: %w", s.ID, err)
	}
	return data, nil
}

// Import reconstructs a session from its exported representation and
// re-establishes the ambiguity invariant by rescanning the draft.
func Import(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("import session: %w", err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("import session: missing session_id")
	}
	if s.Draft == nil {
		return nil, fmt.Errorf("import session %s: missing current_draft", s.ID)
	}
	if err := s.Draft.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("import session %s: %w", s.ID, err)
	}
	s.Rescan()
	if s.State == "" {
		s.State = StateDraft
	}
	if s.ValidationStatus == "" {
		s.ValidationStatus = StatusPending
	}
	return &s, nil
}
