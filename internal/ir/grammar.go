package ir

import (
	"fmt"
	"strings"

	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

// Grammar is the set of named productions produced by the parser: an
// ordered list of Definitions in source order, a name-to-definition map,
// and a back-reference index mapping each interned name to every node that
// references it.
type Grammar struct {
	Order []*Definition
	ByName map[string]*Definition

	// BackRefIndex mirrors Definition.BackRefs but keyed by name, letting
	// callers look up the references to a definition without walking the
	// tree. It is populated by the analyzer, not by the parser, and only
	// for references that resolved; names with no definition have no entry.
	BackRefIndex map[string][]*Node

	finished bool
}

// NewGrammar returns an empty Grammar ready to accept definitions.
func NewGrammar() *Grammar {
	return &Grammar{
		ByName:       make(map[string]*Definition),
		BackRefIndex: make(map[string][]*Node),
	}
}

// AddDefinition registers d in source order. It fails if a definition with
// the same name already exists.
func (g *Grammar) AddDefinition(d *Definition) error {
	if _, exists := g.ByName[d.Name]; exists {
		return fmt.Errorf("duplicate definition %q", d.Name)
	}
	g.ByName[d.Name] = d
	g.Order = append(g.Order, d)
	return nil
}

// Definition looks up a definition by name.
func (g *Grammar) Definition(name string) (*Definition, bool) {
	d, ok := g.ByName[name]
	return d, ok
}

// StartSymbol returns the first definition in source order, or nil if the
// grammar is empty.
func (g *Grammar) StartSymbol() *Definition {
	if len(g.Order) == 0 {
		return nil
	}
	return g.Order[0]
}

// Finished reports whether FinishSyntax has been called; after that point
// the IR is logically frozen and only read by emitters.
func (g *Grammar) Finished() bool {
	return g.finished
}

// FinishSyntax marks the grammar frozen. It is idempotent.
func (g *Grammar) FinishSyntax() {
	g.finished = true
}

// AddBackRef records that node references def, both on the Definition
// itself and in the name-keyed index. Called by the analyzer during
// resolution.
func (g *Grammar) AddBackRef(def *Definition, node *Node) {
	def.BackRefs = append(def.BackRefs, node)
	g.BackRefIndex[def.Name] = append(g.BackRefIndex[def.Name], node)
}

// Validate checks the structural invariants that are not
// already enforced at parse time (e.g. back-reference membership after
// resolution). It is intended to run in tests and in the --repl tooling as
// a sanity check, not as part of the normal pipeline (the parser rejects
// cardinality violations as it builds the tree, per §4.2).
func (g *Grammar) Validate() error {
	for _, d := range g.Order {
		for _, ref := range d.BackRefs {
			if ref.Kind != Nonterminal || ref.Resolved != d {
				return fmt.Errorf("definition %q has a back-reference that does not resolve back to it", d.Name)
			}
		}
	}
	return nil
}

// String renders a compact, stable debug representation of the grammar:
// one line per definition showing its operator annotation and node tree.
func (g *Grammar) String() string {
	var sb strings.Builder
	for i, d := range g.Order {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Name)
		if d.Op != symbols.Normal {
			sb.WriteString(" (")
			sb.WriteString(d.Op.String())
			sb.WriteString(")")
		}
		sb.WriteString(" ::= ")
		sb.WriteString(nodeString(d.Root))
	}
	return sb.String()
}

func nodeString(n *Node) string {
	if n == nil {
		return "<empty>"
	}
	switch n.Kind {
	case Terminal:
		return "'" + n.Token.Value + "'" + quantSuffix(n.Quant)
	case Nonterminal:
		return n.Token.Value + quantSuffix(n.Quant)
	case PredicateNode:
		return "\\" + n.Token.Value + "\\"
	case Sequence:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = nodeString(c)
		}
		return wrapQuant(strings.Join(parts, " "), n.Quant)
	case Alternative:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = nodeString(c)
		}
		return wrapQuant(strings.Join(parts, " | "), n.Quant)
	default:
		return "?"
	}
}

func quantSuffix(q Quantifier) string {
	switch q {
	case ZeroOrOne:
		return "?"
	case ZeroOrMore:
		return "*"
	default:
		return ""
	}
}

func wrapQuant(s string, q Quantifier) string {
	switch q {
	case ZeroOrOne:
		return "[" + s + "]"
	case ZeroOrMore:
		return "{" + s + "}"
	default:
		return "(" + s + ")"
	}
}

// SymbolAt resolves a (line, col) source position to the innermost node of
// a definition body covering it. This is the findSymbolBySourcePos tooling
// hook. Only nodes inside definition bodies are searched; a position on a
// definition's own Production token finds nothing. nonTerminalOnly
// restricts the result to Nonterminal nodes.
func (g *Grammar) SymbolAt(line, col int, nonTerminalOnly bool) (*Node, bool) {
	for _, d := range g.Order {
		if n := findInNode(d.Root, line, col, nonTerminalOnly); n != nil {
			return n, true
		}
	}
	return nil, false
}

func findInNode(n *Node, line, col int, nonTerminalOnly bool) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if found := findInNode(c, line, col, nonTerminalOnly); found != nil {
			return found
		}
	}
	if n.Token.Line == line && col >= n.Token.Col && col < n.Token.Col+maxInt(n.Token.Length, 1) {
		if nonTerminalOnly && n.Kind != Nonterminal {
			return nil
		}
		return n
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
