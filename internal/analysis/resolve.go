// Package analysis implements the resolver and analyzer passes: reference
// resolution, the nullability and repeatability fixpoints, left-recursion
// detection, and the ambiguous-alternative check
// supplemented from original_source/ (see SPEC_FULL.md).
package analysis

import (
	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/ir"
)

// Run performs the full resolve+analyze pass over g, reporting findings to
// sink, and marks g finished. It is the single entry point the pipeline
// calls between parsing and emission.
func Run(g *ir.Grammar, sink ebnferr.Sink) {
	ResolveReferences(g, sink)
	ComputeNullability(g)
	ComputeRepeatability(g)
	DetectLeftRecursion(g, sink)
	DetectAmbiguousAlternatives(g, sink)
	g.FinishSyntax()
}

// ResolveReferences walks every Nonterminal node in the grammar and looks
// up its identifier in the definition map. A miss is not a hard error: the
// node remains a pseudoterminal (Resolved stays nil) and is reported as a
// Semantic-kind warning, not aborted.
func ResolveReferences(g *ir.Grammar, sink ebnferr.Sink) {
	for _, d := range g.Order {
		walk(d.Root, func(n *ir.Node) {
			if n.Kind != ir.Nonterminal {
				return
			}
			def, ok := g.Definition(n.Token.Value)
			if !ok {
				sink.Errorf(ebnferr.Semantic, n.Token.Line, n.Token.Col,
					"unresolved nonterminal %q, treated as pseudoterminal", n.Token.Value)
				return
			}
			n.Resolved = def
			g.AddBackRef(def, n)
		})
	}
}

// walk visits every node in the tree rooted at n in a pre-order traversal,
// including n itself. n may be nil.
func walk(n *ir.Node, visit func(*ir.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		walk(c, visit)
	}
}
