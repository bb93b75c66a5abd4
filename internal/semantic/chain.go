package semantic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// ValueSource classifies where a symbolic value came from.
type ValueSource string

const (
	SourceParameter ValueSource = "parameter"
	SourceComputed  ValueSource = "computed"
	SourceLiteral   ValueSource = "literal"
)

// SymbolicValue is the analyzer's knowledge about one named value.
type SymbolicValue struct {
	TypeHint string
	Source   ValueSource
	// Provenance is the ordered list of operations that produced or
	// touched the value.
	Provenance []string
}

// Return records the chain's terminal return, if any.
type Return struct {
	// Symbol is the returned value's name, "" for literals.
	Symbol   string
	TypeHint string
	// Effect is the index of the returning effect.
	Effect int
}

// Chain is the result of symbolically interpreting the effects list.
type Chain struct {
	Symbols map[string]SymbolicValue
	Return  *Return
	// last is the most recently produced symbol, the implicit operand for
	// effects that do not name one ("count the resulting elements").
	last string

	sawIteration     bool
	iterationBounded bool
	iterationEffect  int
}

// AnalyzeChain interprets the effects in order, seeding the symbol table
// from the signature's parameters. Holes are skipped: a placeholder step
// has no behavior to interpret yet. Effects the grammar cannot parse are
// skipped with a parse_incomplete warning.
func AnalyzeChain(draft *ir.IR) (*Chain, []session.Issue) {
	chain := &Chain{
		Symbols:         make(map[string]SymbolicValue),
		iterationEffect: -1,
	}
	var issues []session.Issue

	for _, p := range draft.Signature.Params {
		if p.Name.IsHole() || p.Name.Value == "" {
			continue
		}
		chain.Symbols[strings.ToLower(p.Name.Value)] = SymbolicValue{
			TypeHint:   normalizeType(p.Type.Value),
			Source:     SourceParameter,
			Provenance: []string{"parameter " + p.Name.Value},
		}
	}

	for i, effect := range draft.Effects {
		if effect.Describe.IsHole() {
			continue
		}
		text := effect.Describe.Value
		op, ok := ParseEffect(text, chain.knownSymbols())
		if !ok {
			issues = append(issues, session.Issue{
				Code:     IssueParseIncomplete,
				Severity: session.SeverityWarning,
				Message:  fmt.Sprintf("effect %d is outside the analyzer's grammar; step skipped: %q", i, text),
				Effect:   i,
			})
			continue
		}
		chain.step(i, op)
	}
	return chain, issues
}

// knownSymbols returns the names currently in scope, sorted so the parse
// (and any issue it produces) is deterministic.
func (c *Chain) knownSymbols() []string {
	out := make([]string, 0, len(c.Symbols))
	for name := range c.Symbols {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// step updates the symbol table for one parsed operation.
func (c *Chain) step(index int, op Op) {
	switch op.Kind {
	case OpSplit:
		c.produce("parts", "list", op)

	case OpCount:
		c.produce("count", "int", op)

	case OpCheck:
		c.produce("result", "bool", op)

	case OpFind:
		// The found element inherits the element type of a string split,
		// the only list producer the grammar knows.
		c.produce("match", "string", op)

	case OpFilter:
		c.produce("filtered", "list", op)

	case OpTransform, OpCombine:
		// Transforms refine an existing value rather than naming a fresh
		// one; track provenance on the primary input when there is one.
		if len(op.Inputs) > 0 {
			name := op.Inputs[0]
			sym := c.Symbols[name]
			sym.Source = SourceComputed
			sym.Provenance = append(sym.Provenance, op.Raw)
			c.Symbols[name] = sym
			c.last = name
		} else {
			c.produce("value", "", op)
		}

	case OpIterate:
		c.sawIteration = true
		c.iterationEffect = index
		if op.Bounded {
			c.iterationBounded = true
		}

	case OpReturn:
		if c.Return != nil {
			return // first return is terminal; later ones are unreachable
		}
		c.Return = c.resolveReturn(index, op)
	}
}

// produce records a freshly computed symbol and makes it the implicit
// operand for the next step.
func (c *Chain) produce(name, typeHint string, op Op) {
	prov := []string{op.Raw}
	if prev, ok := c.Symbols[name]; ok {
		prov = append(prev.Provenance, op.Raw)
	}
	c.Symbols[name] = SymbolicValue{
		TypeHint:   typeHint,
		Source:     SourceComputed,
		Provenance: prov,
	}
	c.last = name
}

// resolveReturn determines what a return effect returns and its type.
func (c *Chain) resolveReturn(index int, op Op) *Return {
	words := tokenize(op.Raw)
	for _, w := range words {
		switch w {
		case "true", "false":
			return &Return{TypeHint: "bool", Effect: index}
		}
	}
	// Prefer a symbol the text names explicitly; fall back to the most
	// recently produced value.
	name := ""
	if len(op.Inputs) > 0 {
		name = op.Inputs[len(op.Inputs)-1]
	} else if c.last != "" {
		name = c.last
	}
	if name == "" {
		return &Return{Effect: index}
	}
	return &Return{
		Symbol:   name,
		TypeHint: c.Symbols[name].TypeHint,
		Effect:   index,
	}
}
