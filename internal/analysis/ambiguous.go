package analysis

import (
	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/firstfollow"
	"github.com/grammarkit/ebnfstudio/internal/ir"
)

// DetectAmbiguousAlternatives reports, at kind Analysis, sibling
// alternatives whose FIRST_1 sets overlap, and optional/repeated nodes
// whose own FIRST_1 set overlaps their continuation's FIRST_1 set. This
// mirrors the AmbigAlt/AmbigOpt issue kinds: ambiguous alternatives by
// first-set overlap.
//
// A quantified node that is not itself a Sequence child (a bare quantified
// definition root, or a direct Alternative branch) is not checked here: its
// continuation lives in whatever context calls the enclosing definition,
// which would require FOLLOW sets this pass does not compute.
func DetectAmbiguousAlternatives(g *ir.Grammar, sink ebnferr.Sink) {
	table := firstfollow.Compute(g, 1)

	for _, d := range g.Order {
		walk(d.Root, func(n *ir.Node) {
			switch n.Kind {
			case ir.Alternative:
				checkAlternativeOverlap(table, n, sink)
			case ir.Sequence:
				checkOptionalOverlap(table, n, sink)
			}
		})
	}
}

func checkAlternativeOverlap(table *firstfollow.Table, alt *ir.Node, sink ebnferr.Sink) {
	for i := 0; i < len(alt.Children); i++ {
		for j := i + 1; j < len(alt.Children); j++ {
			si := table.NodeSet(alt.Children[i])
			sj := table.NodeSet(alt.Children[j])
			for _, t := range si {
				if len(t) == 0 {
					continue // epsilon overlap alone isn't a first-set clash
				}
				if other, ok := sj[encodeTuple(t)]; ok && len(other) > 0 {
					sink.Errorf(ebnferr.Analysis, alt.Token.Line, alt.Token.Col,
						"ambiguous alternatives: both branches admit %q as a first symbol", t[0])
				}
			}
		}
	}
}

// checkOptionalOverlap looks for a quantified (ZeroOrOne/ZeroOrMore)
// child of a Sequence whose own FIRST_1 set overlaps the FIRST_1
// set of what follows it, which would make it ambiguous whether to
// re-enter the loop/optional or fall through.
func checkOptionalOverlap(table *firstfollow.Table, seq *ir.Node, sink ebnferr.Sink) {
	for i, c := range seq.Children {
		if c.Quant == ir.One {
			continue
		}
		own := table.NodeSet(c)
		rest, err := table.FirstOfLookahead(1, seq, i+1)
		if err != nil || len(rest) == 0 {
			continue
		}
		for _, t := range own {
			if len(t) == 0 {
				continue
			}
			if rest[0][t[0]] {
				sink.Errorf(ebnferr.Analysis, c.Token.Line, c.Token.Col,
					"ambiguous repetition/option: %q is admissible both inside and after this construct", t[0])
			}
		}
	}
}

func encodeTuple(t firstfollow.Tuple) string {
	s := ""
	for i, e := range t {
		if i > 0 {
			s += "\x1f"
		}
		s += e
	}
	return s
}
