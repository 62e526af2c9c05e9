// Package llgen emits an LLgen-style grammar: a %token declaration block
// followed by semicolon-terminated rules using [ ] for optional and { }
// for repeated sub-expressions. LLgen's own conflict resolution has no
// inline syntactic-predicate syntax, so a source-level look-ahead
// predicate is rendered as an inline resolved-first-set comment at the head
// of the sequence it guards, leaving the actual disambiguation to LLgen's
// rule-ordering.
package llgen

import (
	"fmt"
	"io"

	"github.com/grammarkit/ebnfstudio/internal/emit/common"
	"github.com/grammarkit/ebnfstudio/internal/firstfollow"
	"github.com/grammarkit/ebnfstudio/internal/ir"
)

// Options controls the bounded look-ahead depth used to annotate
// predicates.
type Options struct {
	MaxLookahead int
}

// Generate writes an LLgen grammar named after g's start symbol to w.
func Generate(w io.Writer, g *ir.Grammar, opts Options) error {
	if g == nil || len(g.Order) == 0 {
		return fmt.Errorf("llgen: empty grammar")
	}
	if opts.MaxLookahead < 1 {
		opts.MaxLookahead = 1
	}
	root := g.Order[0]
	table := firstfollow.Compute(g, opts.MaxLookahead)

	fmt.Fprintln(w, "// This file was automatically generated by EbnfStudio; don't modify it!")
	fmt.Fprintf(w, "%%start %s, %s;\n\n", root.Name, RuleName(root.Name))

	tokens := append(common.CollectTerminals(g), common.CollectTerminalProductions(g)...)
	for _, tok := range tokens {
		fmt.Fprintf(w, "%%token %s;\n", TokenName(tok))
	}
	fmt.Fprintln(w)

	for i, d := range g.Order {
		if d.DoIgnore() {
			continue
		}
		if i != 0 && d.Unused(false) {
			continue
		}
		if d.Root == nil {
			continue
		}
		fmt.Fprintf(w, "%s:\n\t", RuleName(d.Name))
		writeNode(w, d.Root, true, table)
		fmt.Fprintln(w, "\n\t;")
		fmt.Fprintln(w)
	}
	return nil
}

func writeNode(w io.Writer, n *ir.Node, topLevel bool, table *firstfollow.Table) {
	if n == nil || n.DoIgnore() {
		return
	}

	switch n.Quant {
	case ir.One:
		if common.NeedsParens(n, topLevel) {
			fmt.Fprint(w, "( ")
		}
	case ir.ZeroOrOne:
		fmt.Fprint(w, "[ ")
	case ir.ZeroOrMore:
		fmt.Fprint(w, "{ ")
	}

	switch n.Kind {
	case ir.Terminal:
		fmt.Fprintf(w, "%s ", TokenName(n.Token.Value))
	case ir.Nonterminal:
		if n.Resolved == nil || n.Resolved.Root == nil {
			fmt.Fprintf(w, "%s ", TokenName(n.Token.Value))
		} else {
			fmt.Fprintf(w, "%s ", RuleName(n.Token.Value))
		}
	case ir.Alternative:
		for i, c := range n.Children {
			if i != 0 {
				if topLevel {
					fmt.Fprint(w, "\n\t| ")
				} else {
					fmt.Fprint(w, "| ")
				}
			}
			writeNode(w, c, false, table)
		}
	case ir.Sequence:
		for i, c := range n.Children {
			if c.Kind == ir.PredicateNode {
				writePredicateComment(w, c, n, i, table)
				continue
			}
			writeNode(w, c, false, table)
		}
	}

	switch n.Quant {
	case ir.One:
		if common.NeedsParens(n, topLevel) {
			fmt.Fprint(w, ") ")
		}
	case ir.ZeroOrOne:
		fmt.Fprint(w, "] ")
	case ir.ZeroOrMore:
		fmt.Fprint(w, "} ")
	}
}

func writePredicateComment(w io.Writer, pred *ir.Node, seq *ir.Node, index int, table *firstfollow.Table) {
	depth := pred.GetLlk()
	if depth <= 0 {
		fmt.Fprintf(w, "/* unresolved look-ahead predicate %q */ ", pred.Token.Value)
		return
	}
	perDepth, err := table.FirstOfLookahead(depth, seq, index+1)
	if err != nil {
		fmt.Fprintf(w, "/* unresolved look-ahead predicate %q */ ", pred.Token.Value)
		return
	}
	fmt.Fprint(w, "/* LL(")
	for i, admissible := range perDepth {
		if i != 0 {
			fmt.Fprint(w, " ")
		}
		terms := firstfollow.SortedTerminals(admissible)
		fmt.Fprintf(w, "%d:%v", i+1, terms)
	}
	fmt.Fprint(w, ") */ ")
}

// TokenName renders a terminal value as an LLgen token name.
func TokenName(s string) string {
	return "TOK_" + common.SymToString(s)
}

// RuleName renders a definition name as an LLgen rule name.
func RuleName(s string) string {
	return common.EscapeDollars(s)
}
