// Package cocor emits a Coco/R-style .atg file from the resolved grammar
// IR: a TOKENS block, a PRODUCTIONS block with one rule per non-Skip,
// reachable definition, and, when buildAst is set, semantic actions that
// build a generic syntax tree as the parse proceeds. Look-ahead predicates
// are translated into Coco/R's IF(...) peek expressions using the bounded
// FIRST_k table.
package cocor

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/grammarkit/ebnfstudio/internal/emit/common"
	"github.com/grammarkit/ebnfstudio/internal/firstfollow"
	"github.com/grammarkit/ebnfstudio/internal/ir"
	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

// Options controls optional output shaping.
type Options struct {
	// BuildAst emits semantic actions that push/pop syntax-tree nodes as
	// each production and terminal is recognized.
	BuildAst bool
	// MaxLookahead is the bounded look-ahead depth predicates are resolved
	// against; it must be at least the deepest `LL:n` annotation used in g.
	MaxLookahead int
}

// Generate writes a Coco/R grammar named after g's start symbol to w.
func Generate(w io.Writer, g *ir.Grammar, opts Options) error {
	if g == nil || len(g.Order) == 0 {
		return fmt.Errorf("cocor: empty grammar")
	}
	if opts.MaxLookahead < 1 {
		opts.MaxLookahead = 1
	}
	root := g.Order[0]
	table := firstfollow.Compute(g, opts.MaxLookahead)

	fmt.Fprintln(w, "// This file was automatically generated by EbnfStudio; don't modify it!")
	if opts.BuildAst {
		fmt.Fprintf(w, "COMPILER %s\n\n", root.Name)
		fmt.Fprintln(w, "\tvar synRoot *SynTree")
		fmt.Fprintln(w, "\tvar synStack []*SynTree")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "\tfunc addTerminal() {")
		fmt.Fprintln(w, "\t\tn := NewSynTree(curToken)")
		fmt.Fprintln(w, "\t\ttop := synStack[len(synStack)-1]")
		fmt.Fprintln(w, "\t\ttop.Children = append(top.Children, n)")
		fmt.Fprintln(w, "\t}")
	} else {
		fmt.Fprintf(w, "COMPILER %s\n", root.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "TOKENS")
	tokens := common.CollectTerminals(g)
	for _, tok := range tokens {
		name := TokenName(tok)
		if common.ContainsAlnum(tok) {
			fmt.Fprintf(w, "  %s\n", name)
		} else {
			fmt.Fprintf(w, "  %s_\n", name)
		}
	}
	for _, tp := range common.CollectTerminalProductions(g) {
		fmt.Fprintf(w, "  %s_\n", TokenName(tp))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PRODUCTIONS")
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
		writeProduction(w, d, i == 0, opts, table)
	}

	fmt.Fprintf(w, "END %s.\n", root.Name)
	return nil
}

func writeProduction(w io.Writer, d *ir.Definition, isStart bool, opts Options, table *firstfollow.Table) {
	name := common.EscapeDollars(d.Name)
	fmt.Fprintf(w, "%s =\n    ", name)

	transparent := d.Op == symbols.Transparent
	if opts.BuildAst {
		if isStart {
			fmt.Fprint(w, "(. synStack = append(synStack, synRoot); .) ( ")
		} else if !transparent {
			fmt.Fprintf(w, "(. n := NewSynTreeRule(R%s); top := synStack[len(synStack)-1]; "+
				"top.Children = append(top.Children, n); synStack = append(synStack, n); .) ( ", name)
		}
	}

	writeNode(w, d.Root, true, opts, table)

	if opts.BuildAst && (isStart || !transparent) {
		fmt.Fprint(w, ") (. synStack = synStack[:len(synStack)-1]; .) ")
	}
	fmt.Fprintln(w, "\n    .")
	fmt.Fprintln(w)
}

func writeNode(w io.Writer, n *ir.Node, topLevel bool, opts Options, table *firstfollow.Table) {
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
		if opts.BuildAst {
			fmt.Fprint(w, "(. addTerminal(); .) ")
		}
	case ir.Nonterminal:
		if n.Resolved == nil || n.Resolved.Root == nil {
			fmt.Fprintf(w, "%s ", TokenName(n.Token.Value))
			if opts.BuildAst {
				fmt.Fprint(w, "(. addTerminal(); .) ")
			}
		} else {
			fmt.Fprintf(w, "%s ", common.EscapeDollars(n.Token.Value))
		}
	case ir.Alternative:
		for i, c := range n.Children {
			if i != 0 {
				if topLevel {
					fmt.Fprint(w, "\n    | ")
				} else {
					fmt.Fprint(w, "| ")
				}
			}
			writeNode(w, c, false, opts, table)
		}
	case ir.Sequence:
		for i, c := range n.Children {
			if c.Kind == ir.PredicateNode {
				handlePredicate(w, c, n, i, table)
				continue
			}
			writeNode(w, c, false, opts, table)
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

// handlePredicate renders a `\LL:n\`-style source predicate as Coco/R's
// IF(peek(i)==...) look-ahead guard, using the FIRST_k table to find which
// terminals are admissible at each of the n look-ahead positions following
// the predicate within its enclosing sequence.
func handlePredicate(w io.Writer, pred *ir.Node, seq *ir.Node, index int, table *firstfollow.Table) {
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

	fmt.Fprint(w, "IF( ")
	for i, admissible := range perDepth {
		if i != 0 {
			fmt.Fprint(w, "&& ")
		}
		terms := firstfollow.SortedTerminals(admissible)
		multi := len(terms) > 1
		if multi {
			fmt.Fprint(w, "( ")
		}
		for j, t := range terms {
			if j != 0 {
				fmt.Fprint(w, "|| ")
			}
			fmt.Fprintf(w, "peek(%d) == _%s ", i+1, TokenName(t))
		}
		if multi {
			fmt.Fprint(w, ") ")
		}
	}
	fmt.Fprint(w, ") ")
}

// TokenName renders a terminal value as an upper-case Coco/R token name, the
// bare name a look-ahead predicate's peek() condition prefixes with `_`.
func TokenName(s string) string {
	name := strings.ToUpper(common.SymToString(s))
	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = "T" + name
	}
	return name
}
