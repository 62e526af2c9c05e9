// Package antlr emits an ANTLR-style .g4 grammar file from the resolved
// grammar IR: a tokens block listing every terminal and terminal
// production, followed by one parser rule per non-Skip, reachable
// definition.
package antlr

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/grammarkit/ebnfstudio/internal/emit/common"
	"github.com/grammarkit/ebnfstudio/internal/ir"
)

// Options controls the generated options{} block.
type Options struct {
	// Lang names the ANTLR target host language, e.g. "Cpp" or "Go".
	// Defaults to "Cpp" when empty.
	Lang string
}

// Generate writes an ANTLR grammar named after g's start symbol to w.
func Generate(w io.Writer, g *ir.Grammar, opts Options) error {
	if g == nil || len(g.Order) == 0 {
		return fmt.Errorf("antlr: empty grammar")
	}
	lang := opts.Lang
	if lang == "" {
		lang = "Cpp"
	}
	root := g.Order[0]

	fmt.Fprintln(w, "// This file was automatically generated by EbnfStudio; don't modify it!")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "grammar %s;\n\n", root.Name)
	fmt.Fprintln(w, "options {")
	fmt.Fprintf(w, "    language = %s;\n", lang)
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)

	tokens := append(common.CollectTerminals(g), common.CollectTerminalProductions(g)...)
	fmt.Fprintln(w, "tokens {")
	for i, tok := range tokens {
		fmt.Fprintf(w, "\t%s='%d';\n", TokenName(tok), i)
	}
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)

	isStart := true
	for _, d := range g.Order {
		start := isStart
		isStart = false
		if d.DoIgnore() {
			continue
		}
		if !start && d.Unused(false) {
			continue
		}
		if d.Root == nil {
			continue
		}
		fmt.Fprintf(w, "%s :\n    ", RuleName(d.Name))
		writeNode(w, d.Root, true)
		fmt.Fprintln(w, "\n    ;")
		fmt.Fprintln(w)
	}
	return nil
}

func writeNode(w io.Writer, n *ir.Node, topLevel bool) {
	if n == nil || n.DoIgnore() {
		return
	}

	switch n.Quant {
	case ir.One:
		if common.NeedsParens(n, topLevel) {
			fmt.Fprint(w, "( ")
		}
	case ir.ZeroOrOne, ir.ZeroOrMore:
		fmt.Fprint(w, "( ")
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
					fmt.Fprint(w, "\n    | ")
				} else {
					fmt.Fprint(w, "| ")
				}
			}
			writeNode(w, c, false)
		}
	case ir.Sequence:
		for _, c := range n.Children {
			if c.Kind == ir.PredicateNode {
				continue // ANTLR's own syntactic predicates replace the source-level look-ahead note
			}
			writeNode(w, c, false)
		}
	}

	switch n.Quant {
	case ir.One:
		if common.NeedsParens(n, topLevel) {
			fmt.Fprint(w, ") ")
		}
	case ir.ZeroOrOne:
		fmt.Fprint(w, ")? ")
	case ir.ZeroOrMore:
		fmt.Fprint(w, ")* ")
	}
}

// TokenName renders a terminal value as an upper-case ANTLR token name,
// prefixing a leading digit with T so the result is a legal identifier.
func TokenName(s string) string {
	name := strings.ToUpper(common.SymToString(s))
	if name != "" && unicode.IsDigit(rune(name[0])) {
		name = "T" + name
	}
	return name
}

// RuleName renders a definition name as a lower-case ANTLR parser rule name.
func RuleName(s string) string {
	return strings.ToLower(common.EscapeDollars(s))
}
