package constraint

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/mortise/tenon/internal/session"
)

// CUESolver checks predicate satisfiability through CUE unification. Each
// comparison predicate becomes a constraint on a CUE struct field;
// compiling and validating the struct makes CUE unify all constraints per
// field, and a conflict surfaces as an evaluation error that becomes the
// unsat witness.
type CUESolver struct{}

// NewCUESolver creates the default solver.
func NewCUESolver() *CUESolver {
	return &CUESolver{}
}

// predRe matches comparison predicates: `name op value` and
// `len(name) op value`.
var predRe = regexp.MustCompile(`^\s*(len\(\s*)?([A-Za-z_][A-Za-z0-9_]*)\s*\)?\s*(==|!=|>=|<=|>|<)\s*(.+?)\s*$`)

// CheckSatisfiable implements Solver.
//
// The translation keeps only predicates the grammar understands; opaque
// prose is excluded and reported in the verdict's predicate list so
// callers can see what was actually solved. The CUE evaluation runs in its
// own goroutine and is abandoned on ctx expiry.
func (s *CUESolver) CheckSatisfiable(ctx context.Context, predicates []string) (session.Verdict, error) {
	var lines, solved []string
	for _, p := range predicates {
		line, ok := translate(p)
		if !ok {
			continue
		}
		lines = append(lines, line)
		solved = append(solved, p)
	}
	if len(lines) == 0 {
		// Nothing translatable - vacuously satisfiable.
		return session.Verdict{Outcome: session.VerdictSat}, nil
	}
	src := strings.Join(lines, "\n")

	type result struct {
		verdict session.Verdict
		err     error
	}
	done := make(chan result, 1)
	go func() {
		done <- result{verdict: evaluate(src, solved)}
	}()

	select {
	case <-ctx.Done():
		return session.Verdict{}, fmt.Errorf("solver timeout: %w", ctx.Err())
	case r := <-done:
		return r.verdict, r.err
	}
}

// evaluate compiles the generated constraints and interprets unification
// failure as unsat.
func evaluate(src string, solved []string) session.Verdict {
	cuectx := cuecontext.New()
	v := cuectx.CompileString(src)
	if err := v.Err(); err != nil {
		// The source is machine-generated, so an error here is a field
		// conflict, not a syntax problem.
		return session.Verdict{
			Outcome:    session.VerdictUnsat,
			Predicates: solved,
			Witness:    err.Error(),
		}
	}
	if err := v.Validate(cue.Concrete(false)); err != nil {
		return session.Verdict{
			Outcome:    session.VerdictUnsat,
			Predicates: solved,
			Witness:    err.Error(),
		}
	}
	return session.Verdict{Outcome: session.VerdictSat, Predicates: solved}
}

// translate converts one comparison predicate into a CUE field constraint.
// Returns false for predicates outside the grammar.
func translate(pred string) (string, bool) {
	m := predRe.FindStringSubmatch(pred)
	if m == nil {
		return "", false
	}
	isLen := m[1] != ""
	field, op, rawVal := m[2], m[3], m[4]

	val, isInt, ok := translateValue(rawVal)
	if !ok {
		return "", false
	}
	if isLen {
		if !isInt {
			return "", false
		}
		field += "__len"
	}

	// Field names are always quoted so that predicate fields shadowing CUE
	// keywords (if, for, let) stay plain labels instead of syntax errors.
	label := strconv.Quote(field)
	switch op {
	case "==":
		return fmt.Sprintf("%s: %s", label, val), true
	case "!=":
		return fmt.Sprintf("%s: !=%s", label, val), true
	default:
		if !isInt {
			return "", false // ordering on strings/bools is out of scope
		}
		return fmt.Sprintf("%s: %s%s", label, op, val), true
	}
}

// translateValue renders a predicate's right-hand side as a CUE literal.
func translateValue(raw string) (val string, isInt bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return strconv.Itoa(n), true, true
	}
	if raw == "true" || raw == "false" {
		return raw, false, true
	}
	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	if strings.ContainsAny(raw, " \t") {
		return "", false, false // multi-word prose, not a literal
	}
	return strconv.Quote(raw), false, true
}
