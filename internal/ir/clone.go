package ir

// Clone returns a deep copy of the IR. Sessions hand out and commit full
// draft snapshots, so nothing downstream may alias the stored draft.
func (d *IR) Clone() *IR {
	if d == nil {
		return nil
	}
	out := &IR{
		Intent: d.Intent,
		Signature: Signature{
			Name:       d.Signature.Name,
			ReturnType: d.Signature.ReturnType,
		},
		Metadata: Metadata{
			Origin:     d.Metadata.Origin,
			Provenance: d.Metadata.Provenance,
		},
	}
	if d.Signature.Params != nil {
		out.Signature.Params = make([]Param, len(d.Signature.Params))
		copy(out.Signature.Params, d.Signature.Params)
	}
	if d.Effects != nil {
		out.Effects = make([]Effect, len(d.Effects))
		copy(out.Effects, d.Effects)
	}
	if d.Assertions != nil {
		out.Assertions = make([]Assertion, len(d.Assertions))
		copy(out.Assertions, d.Assertions)
	}
	if d.Metadata.Evidence != nil {
		out.Metadata.Evidence = append([]string(nil), d.Metadata.Evidence...)
	}
	if d.Holes != nil {
		out.Holes = make([]Hole, len(d.Holes))
		for i, h := range d.Holes {
			out.Holes[i] = h
			if h.Constraints != nil {
				cc := make(map[string]string, len(h.Constraints))
				for k, v := range h.Constraints {
					cc[k] = v
				}
				out.Holes[i].Constraints = cc
			}
		}
	}
	return out
}
