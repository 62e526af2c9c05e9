package analysis

import (
	"strings"

	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/ir"
)

// leftmostNonterminals returns every Nonterminal node that can appear as
// the leftmost-visible symbol of n: a symbol is leftmost-visible iff every
// predecessor in its enclosing sequence is nullable, recursing into
// alternatives and optional/repetition wrappers.
func leftmostNonterminals(n *ir.Node) []*ir.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ir.Nonterminal:
		return []*ir.Node{n}
	case ir.Terminal, ir.PredicateNode:
		return nil
	case ir.Alternative:
		var out []*ir.Node
		for _, c := range n.Children {
			out = append(out, leftmostNonterminals(c)...)
		}
		return out
	case ir.Sequence:
		var out []*ir.Node
		for _, c := range n.Children {
			if c.Kind == ir.PredicateNode {
				continue
			}
			out = append(out, leftmostNonterminals(c)...)
			if !c.IsNullable() {
				break
			}
		}
		return out
	default:
		return nil
	}
}

// DetectLeftRecursion finds, for every definition D, the leftmost-visible
// nonterminal edges out of D's root, then looks for cycles in the resulting
// definition graph. A cycle of length 1 (D references itself directly)
// marks D directly left-recursive; a longer cycle marks every definition on
// it indirectly left-recursive. Nodes lying on a found cycle are tagged
// LeftRecursive. Findings are reported at kind Analysis and never abort
// traversal.
func DetectLeftRecursion(g *ir.Grammar, sink ebnferr.Sink) {
	for _, origin := range g.Order {
		visiting := map[string]bool{origin.Name: true}
		var pathNames []string
		var pathNodes []*ir.Node

		var dfs func(cur *ir.Definition) bool
		dfs = func(cur *ir.Definition) bool {
			for _, ln := range leftmostNonterminals(cur.Root) {
				target := ln.Resolved
				if target == nil {
					continue
				}
				if target == origin {
					ln.LeftRecursive = true
					for _, n := range pathNodes {
						n.LeftRecursive = true
					}
					if cur == origin {
						if !origin.DirectLeftRecursive {
							origin.DirectLeftRecursive = true
							sink.Errorf(ebnferr.Analysis, ln.Token.Line, ln.Token.Col,
								"definition %q is directly left-recursive", origin.Name)
						}
						continue
					}
					origin.IndirectLeftRecursive = true
					sink.Errorf(ebnferr.Analysis, ln.Token.Line, ln.Token.Col,
						"definition %q is indirectly left-recursive (via %s)",
						origin.Name, strings.Join(pathNames, " -> "))
					return true
				}
				if visiting[target.Name] {
					continue
				}
				visiting[target.Name] = true
				pathNames = append(pathNames, target.Name)
				pathNodes = append(pathNodes, ln)
				found := dfs(target)
				pathNames = pathNames[:len(pathNames)-1]
				pathNodes = pathNodes[:len(pathNodes)-1]
				delete(visiting, target.Name)
				if found {
					return true
				}
			}
			return false
		}

		dfs(origin)
	}
}
