package semantic

import "strings"

// OpKind is the verb class of one effect.
type OpKind string

const (
	OpReturn    OpKind = "return"
	OpSplit     OpKind = "split"
	OpIterate   OpKind = "iterate"
	OpCount     OpKind = "count"
	OpCheck     OpKind = "check"
	OpFind      OpKind = "find"
	OpFilter    OpKind = "filter"
	OpTransform OpKind = "transform"
	OpCombine   OpKind = "combine"
)

// Op is one parsed effect operation.
type Op struct {
	Kind OpKind
	// Inputs are names of known symbols the effect mentions.
	Inputs []string
	// Bounded marks an iteration that states an early exit
	// ("until", "stop at the first", ...).
	Bounded bool
	// Raw is the original effect text.
	Raw string
}

// verbKinds maps keywords to operation kinds. The effect's verb is the
// first keyword in word order, so "check that the count is positive" is a
// check, and "return the count" is a return.
var verbKinds = map[string]OpKind{
	"return": OpReturn, "returns": OpReturn, "yield": OpReturn, "output": OpReturn,
	"split": OpSplit, "tokenize": OpSplit, "divide": OpSplit,
	"iterate": OpIterate, "loop": OpIterate, "each": OpIterate,
	"walk": OpIterate, "traverse": OpIterate, "scan": OpIterate,
	"count": OpCount, "length": OpCount, "size": OpCount, "number": OpCount,
	"check": OpCheck, "verify": OpCheck, "validate": OpCheck,
	"ensure": OpCheck, "confirm": OpCheck, "test": OpCheck,
	"find": OpFind, "locate": OpFind, "search": OpFind, "lookup": OpFind,
	"filter": OpFilter, "select": OpFilter, "keep": OpFilter,
	"discard": OpFilter, "remove": OpFilter,
	"convert": OpTransform, "parse": OpTransform, "trim": OpTransform,
	"normalize": OpTransform, "lowercase": OpTransform, "uppercase": OpTransform,
	"format": OpTransform, "compute": OpTransform, "calculate": OpTransform,
	"increment": OpTransform, "decrement": OpTransform, "multiply": OpTransform,
	"join": OpCombine, "concatenate": OpCombine, "concat": OpCombine,
	"merge": OpCombine, "append": OpCombine, "collect": OpCombine,
}

// boundedMarkers signal that an iteration stops before exhausting its
// input, which matters for first-occurrence semantics.
var boundedMarkers = []string{"first", "until", "stop", "break", "immediately", "early"}

// ParseEffect parses one effect description against the keyword grammar.
// known lists the symbol names currently in scope; any that appear in the
// text are recorded as inputs. Returns false when no verb class matches -
// the caller emits a parse_incomplete warning and skips the step.
func ParseEffect(text string, known []string) (Op, bool) {
	words := tokenize(text)
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	op := Op{Raw: text}
	matched := false
	for _, w := range words {
		if kind, ok := verbKinds[w]; ok {
			op.Kind = kind
			matched = true
			break
		}
	}
	if !matched {
		return Op{}, false
	}

	for _, name := range known {
		if wordSet[strings.ToLower(name)] {
			op.Inputs = append(op.Inputs, name)
		}
	}
	for _, m := range boundedMarkers {
		if wordSet[m] {
			op.Bounded = true
			break
		}
	}
	return op, true
}

// tokenize lowercases and splits on whitespace, stripping punctuation from
// word edges. "@" survives because presence checks name it literally.
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,;:!?"'()`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// normalizeType collapses type spellings so the return-consistency check
// compares classes, not strings. Unknown spellings map to "".
func normalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bool", "boolean":
		return "bool"
	case "int", "int32", "int64", "integer", "number":
		return "int"
	case "string", "str", "text":
		return "string"
	case "float", "float32", "float64", "double":
		return "float"
	case "list", "array", "slice", "[]string", "[]int":
		return "list"
	default:
		return ""
	}
}

// isVoid reports whether a declared return type means "returns nothing".
func isVoid(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "void", "none", "unit", "nothing":
		return true
	default:
		return false
	}
}
