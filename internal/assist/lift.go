package assist

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mortise/tenon/internal/ir"
)

// RuleLifter lifts a draft from existing source text by reading the first
// function declaration it finds. The signature comes out concrete; intent
// and behavior stay open, because source code states what it does but not
// what it is for.
type RuleLifter struct {
	newID func() string
	seq   int
}

// NewRuleLifter creates a lifter. newID mints hole ids; pass nil to use a
// per-lifter counter.
func NewRuleLifter(newID func() string) *RuleLifter {
	l := &RuleLifter{}
	if newID == nil {
		newID = func() string {
			l.seq++
			return fmt.Sprintf("h-%d", l.seq)
		}
	}
	l.newID = newID
	return l
}

var funcRe = regexp.MustCompile(`func\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*([A-Za-z_][A-Za-z0-9_]*)?`)

// Lift implements Lifter.
func (l *RuleLifter) Lift(_ context.Context, source string) (*ir.IR, error) {
	m := funcRe.FindStringSubmatch(source)
	if m == nil {
		return nil, fmt.Errorf("no function declaration found in source")
	}
	name, paramList, returnType := m[1], m[2], m[3]

	draft := &ir.IR{
		Metadata: ir.Metadata{
			Provenance: "rule-lifter",
			Evidence:   []string{strings.TrimSpace(m[0])},
		},
	}

	intentID := l.newID()
	draft.Intent.Summary = ir.OpenSlot(intentID)
	draft.AddHole(ir.Hole{
		ID:          intentID,
		Detail:      ir.IntentDetail{},
		Description: fmt.Sprintf("state what %s is for", name),
	})

	draft.Signature.Name = ir.Concrete(name)
	for _, part := range strings.Split(paramList, ",") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		draft.Signature.Params = append(draft.Signature.Params, ir.Param{
			Name: ir.Concrete(fields[0]),
			Type: ir.Concrete(normalizeType(fields[1])),
		})
	}
	if returnType == "" {
		returnType = "void"
	}
	draft.Signature.ReturnType = ir.Concrete(normalizeType(returnType))

	effID := l.newID()
	draft.Effects = []ir.Effect{{Describe: ir.OpenSlot(effID)}}
	draft.AddHole(ir.Hole{
		ID:          effID,
		Detail:      ir.EffectDetail{},
		Description: fmt.Sprintf("describe what the body of %s does", name),
	})

	if err := draft.CheckInvariants(); err != nil {
		return nil, err
	}
	return draft, nil
}
