// Package ir is the grammar intermediate representation: an ordered list of
// named Definitions, each owning a tree of Terminal/Nonterminal/Sequence/
// Alternative/Predicate Nodes annotated with quantifiers and operator
// annotations.
package ir

import (
	"regexp"
	"strconv"

	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

// NodeKind is the tag of the Node variant.
type NodeKind int

const (
	Terminal NodeKind = iota
	Nonterminal
	Sequence
	Alternative
	PredicateNode
)

func (k NodeKind) String() string {
	switch k {
	case Terminal:
		return "Terminal"
	case Nonterminal:
		return "Nonterminal"
	case Sequence:
		return "Sequence"
	case Alternative:
		return "Alternative"
	case PredicateNode:
		return "Predicate"
	default:
		return "?"
	}
}

// Quantifier is the cardinality annotation on a Node.
type Quantifier int

const (
	One Quantifier = iota
	ZeroOrOne
	ZeroOrMore
)

func (q Quantifier) String() string {
	switch q {
	case ZeroOrOne:
		return "ZeroOrOne"
	case ZeroOrMore:
		return "ZeroOrMore"
	default:
		return "One"
	}
}

// Node is one element of a Definition's expression tree. Rather than using
// inheritance, Node is a tagged variant: the shared header fields
// (Token, Quant, Parent, Owner) are held directly on the struct and callers
// switch on Kind, following the polymorphism approach documented for this
// system (model the type as a tagged variant and dispatch capability
// queries — doIgnore/nullable/repeatable — as free functions).
type Node struct {
	Kind  NodeKind
	Quant Quantifier
	Token symbols.Token

	Children []*Node
	Owner    *Definition // the Definition whose tree this node belongs to
	Parent   *Node       // weak back-pointer, nil at the root of a Definition

	// Resolved is set by the analyzer for Nonterminal nodes whose name
	// matched a Definition. It remains nil for pseudoterminal references.
	Resolved *Definition

	// LeftRecursive is tagged by the analyzer for nodes lying on a
	// leftmost-visible recursive path back to their owning Definition.
	LeftRecursive bool
}

// NewNode allocates a Node of the given kind, owned by owner, with parent as
// its (possibly nil) enclosing node. If parent is non-nil the new node is
// appended to parent's Children.
func NewNode(kind NodeKind, owner *Definition, parent *Node, tok symbols.Token) *Node {
	n := &Node{Kind: kind, Token: tok, Owner: owner, Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, n)
	}
	return n
}

// DoIgnore reports whether this node contributes no output: it is
// Skip-annotated itself, or (for Nonterminal nodes) its resolved definition
// is Skip-annotated. Skip is transitive through references.
func (n *Node) DoIgnore() bool {
	if n.Token.Op == symbols.Skip {
		return true
	}
	if n.Kind == Nonterminal && n.Resolved != nil && n.Resolved.Op == symbols.Skip {
		return true
	}
	return false
}

// IsNullable reports whether this node can derive the empty string, per the
// fixpoint rules computed during analysis. A node's own ZeroOrOne/ZeroOrMore
// quantifier makes it nullable at any time; a Nonterminal reports nullable
// only once the analyzer has resolved it and marked its definition nullable.
func (n *Node) IsNullable() bool {
	if n.Quant == ZeroOrOne || n.Quant == ZeroOrMore {
		return true
	}
	switch n.Kind {
	case Terminal, PredicateNode:
		return false
	case Nonterminal:
		return n.Resolved != nil && n.Resolved.Nullable
	case Sequence:
		for _, c := range n.Children {
			if c.Kind == PredicateNode {
				continue
			}
			if !c.IsNullable() {
				return false
			}
		}
		return true
	case Alternative:
		for _, c := range n.Children {
			if c.IsNullable() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsRepeatable reports whether this node carries a ZeroOrMore quantifier
// itself, contains a descendant that is repeatable, or is a reference to a
// repeatable Definition.
func (n *Node) IsRepeatable() bool {
	if n.Quant == ZeroOrMore {
		return true
	}
	switch n.Kind {
	case Terminal, PredicateNode:
		return false
	case Nonterminal:
		return n.Resolved != nil && n.Resolved.Repeatable
	case Sequence, Alternative:
		for _, c := range n.Children {
			if c.IsRepeatable() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsContainer reports whether the node is a Sequence or Alternative.
func (n *Node) IsContainer() bool {
	return n.Kind == Sequence || n.Kind == Alternative
}

var llkPattern = regexp.MustCompile(`(?i)\bLL\s*:\s*([0-9]+)\b`)

// GetLlk returns the positive look-ahead depth k encoded in a Predicate
// node's annotation string, or 0 if the annotation does not encode a
// bounded look-ahead depth. Parsing of the predicate string is deliberately
// confined to this one helper so emitters never embed string parsing of
// predicate syntax themselves.
func (n *Node) GetLlk() int {
	if n.Kind != PredicateNode {
		return 0
	}
	m := llkPattern.FindStringSubmatch(n.Token.Value)
	if m == nil {
		return 0
	}
	k, err := strconv.Atoi(m[1])
	if err != nil || k <= 0 {
		return 0
	}
	return k
}

// FirstVisibleElementOf returns the first leftmost-visible element of node
// — the element that can appear first as the node is matched, recursing
// into Alternative and quantified wrappers and into a Sequence's leading
// children until a non-nullable one is found. It returns nil for an empty
// node.
func FirstVisibleElementOf(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Terminal, Nonterminal:
		return n
	case PredicateNode:
		return nil
	case Alternative:
		for _, c := range n.Children {
			if v := FirstVisibleElementOf(c); v != nil {
				return v
			}
		}
		return nil
	case Sequence:
		for _, c := range n.Children {
			if c.Kind == PredicateNode {
				continue
			}
			if v := FirstVisibleElementOf(c); v != nil {
				return v
			}
			if !c.IsNullable() {
				return nil
			}
		}
		return nil
	default:
		return nil
	}
}

// FirstPredicateOf returns the first Predicate child of a Sequence node, or
// nil if it has none. Predicates only ever appear as the first child of an
// implicitly created Sequence.
func FirstPredicateOf(n *Node) *Node {
	if n == nil || n.Kind != Sequence || len(n.Children) == 0 {
		return nil
	}
	if n.Children[0].Kind == PredicateNode {
		return n.Children[0]
	}
	return nil
}
