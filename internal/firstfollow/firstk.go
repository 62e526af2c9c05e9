// Package firstfollow computes FIRST_k sets over the grammar IR for
// configurable k, and answers the bounded-look-ahead queries the Coco/R and
// LL(n) emitters use to translate user-written predicates into target-native
// condition expressions.
package firstfollow

import (
	"sort"
	"strings"

	"github.com/grammarkit/ebnfstudio/internal/ir"
)

// Tuple is a sequence of 0..k terminal symbol values. A tuple shorter than k
// signals that the derivation it represents ends there — the distinguished
// shorter-sequence marker is realised here as tuple length rather than as
// an explicit in-band epsilon symbol, since Go
// slices already carry their own length and an explicit sentinel would
// collide with the empty-string literal '' being itself a legal terminal
// value.
type Tuple []string

// Set is a set of Tuples, keyed by their joined-string encoding for
// constant-time membership and union.
type Set map[string]Tuple

const tupleSep = "\x1f"

func encode(t Tuple) string {
	return strings.Join(t, tupleSep)
}

func newSet(tuples ...Tuple) Set {
	s := make(Set, len(tuples))
	for _, t := range tuples {
		s[encode(t)] = t
	}
	return s
}

func (s Set) add(t Tuple) {
	s[encode(t)] = t
}

func (s Set) union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

func (s Set) equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

// concat implements the ⊙ operator: concatenation of
// sequences, treating a tuple already at length k as saturated (its tail is
// irrelevant to k-bounded look-ahead) and a tuple shorter than k as needing
// continuation from the right-hand operand, truncated back to length k.
func concat(a, b Set, k int) Set {
	out := make(Set)
	for _, ta := range a {
		if len(ta) >= k {
			out.add(ta)
			continue
		}
		if len(b) == 0 {
			out.add(ta)
			continue
		}
		for _, tb := range b {
			merged := make(Tuple, 0, k)
			merged = append(merged, ta...)
			merged = append(merged, tb...)
			if len(merged) > k {
				merged = merged[:k]
			}
			out.add(merged)
		}
	}
	return out
}

// Table holds the computed FIRST_k sets for every definition in a grammar,
// for a fixed k.
type Table struct {
	k     int
	byDef map[string]Set
}

// K returns the bounded look-ahead depth this table was computed for.
func (t *Table) K() int {
	return t.k
}

// Compute runs the FIRST_k fixpoint over g for look-ahead depth k (k >= 1)
// and returns the resulting Table.
func Compute(g *ir.Grammar, k int) *Table {
	if k < 1 {
		k = 1
	}
	t := &Table{k: k, byDef: make(map[string]Set)}
	for _, d := range g.Order {
		t.byDef[d.Name] = newSet()
	}

	for {
		changed := false
		for _, d := range g.Order {
			next := t.nodeSet(d.Root)
			if !next.equal(t.byDef[d.Name]) {
				t.byDef[d.Name] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return t
}

// DefSet returns the FIRST_k set of the named definition's root.
func (t *Table) DefSet(name string) Set {
	return t.byDef[name]
}

// NodeSet returns the FIRST_k set of an arbitrary node, using the current
// per-definition table for Nonterminal references. Call after Compute has
// reached its fixpoint.
func (t *Table) NodeSet(n *ir.Node) Set {
	return t.nodeSet(n)
}

func (t *Table) nodeSet(n *ir.Node) Set {
	if n == nil {
		return newSet(Tuple{})
	}

	var base Set
	switch n.Kind {
	case ir.Terminal:
		base = newSet(Tuple{n.Token.Value})
	case ir.Nonterminal:
		if n.Resolved != nil {
			base = t.byDef[n.Resolved.Name]
			if base == nil {
				base = newSet()
			}
		} else {
			// pseudoterminal: treated as a terminal whose name matches the
			// reference.
			base = newSet(Tuple{n.Token.Value})
		}
	case ir.PredicateNode:
		base = newSet(Tuple{})
	case ir.Sequence:
		base = newSet(Tuple{})
		for _, c := range n.Children {
			if c.Kind == ir.PredicateNode {
				continue
			}
			base = concat(base, t.nodeSet(c), t.k)
		}
	case ir.Alternative:
		base = newSet()
		for _, c := range n.Children {
			base = base.union(t.nodeSet(c))
		}
	default:
		base = newSet()
	}

	switch n.Quant {
	case ir.ZeroOrOne:
		base = base.union(newSet(Tuple{}))
	case ir.ZeroOrMore:
		acc := base.union(newSet(Tuple{}))
		cur := base
		for i := 0; i < t.k; i++ {
			next := concat(cur, base, t.k)
			merged := acc.union(next)
			if merged.equal(acc) {
				break
			}
			acc = merged
			cur = next
		}
		base = acc
	}

	return base
}

// FirstOfLookahead answers the §4.4 query: for a Sequence node seq whose
// child at afterIndex-1 is the look-ahead predicate (or, more generally,
// any index marking where the suffix begins), return for each depth
// 1..depth the set of terminal symbols admissible at that depth given the
// remaining suffix seq.Children[afterIndex:].
//
// depth must be positive; a predicate that could not be parsed to a
// positive depth (Node.GetLlk() == 0) is an ill-formed predicate the caller
// must report rather than querying here.
func (t *Table) FirstOfLookahead(depth int, seq *ir.Node, afterIndex int) ([]map[string]bool, error) {
	if depth <= 0 {
		return nil, errIllFormedPredicate
	}
	if seq == nil || seq.Kind != ir.Sequence {
		return nil, errIllFormedPredicate
	}

	suffix := newSet(Tuple{})
	for i := afterIndex; i < len(seq.Children); i++ {
		c := seq.Children[i]
		if c.Kind == ir.PredicateNode {
			continue
		}
		suffix = concat(suffix, t.nodeSet(c), depth)
	}

	perDepth := make([]map[string]bool, depth)
	for i := range perDepth {
		perDepth[i] = make(map[string]bool)
	}
	for _, tup := range suffix {
		for i := 0; i < depth && i < len(tup); i++ {
			perDepth[i][tup[i]] = true
		}
	}
	return perDepth, nil
}

// SortedTerminals returns the members of a per-depth admissible set in
// deterministic (alphabetical) order, for emitters that must produce
// byte-identical output across runs.
func SortedTerminals(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
