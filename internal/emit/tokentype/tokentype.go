// Package tokentype emits a Go token-type enum scaffold: TokInvalid,
// literal and keyword token constants (split at the first alphanumeric
// token value), special/terminal-production constants, and, when
// includeNonterminals is set, one R-prefixed rule constant per reachable,
// non-Transparent definition. Alongside the enum it emits pretty-print,
// name-print, and section-predicate helper functions.
package tokentype

import (
	"fmt"
	"io"

	"github.com/grammarkit/ebnfstudio/internal/emit/common"
	"github.com/grammarkit/ebnfstudio/internal/ir"
	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

// Options controls scaffold shape.
type Options struct {
	Namespace           string // Go package name for the generated file; empty uses "tokentype"
	IncludeNonterminals bool
}

type entry struct {
	section string // non-empty marks a section header pseudo-entry
	name    string
	literal string // original terminal text, empty for section headers
}

func buildEntries(g *ir.Grammar) []entry {
	tokens := common.CollectTerminals(g)
	specials := common.CollectTerminalProductions(g)

	var out []entry
	out = append(out, entry{section: "Literals"})

	keywordSection := false
	for _, tok := range tokens {
		if !keywordSection && common.ContainsAlnum(tok) {
			out = append(out, entry{section: "Keywords"})
			keywordSection = true
		}
		out = append(out, entry{name: common.SymToString(tok), literal: tok})
	}
	out = append(out, entry{section: "Specials"})
	for _, s := range specials {
		out = append(out, entry{name: common.EscapeDollars(s), literal: s})
	}
	out = append(out, entry{name: "Eof", literal: "<eof>"})
	return out
}

// Generate writes the token-type Go source file to w.
func Generate(w io.Writer, g *ir.Grammar, opts Options) error {
	pkg := opts.Namespace
	if pkg == "" {
		pkg = "tokentype"
	}

	entries := buildEntries(g)

	fmt.Fprintln(w, "// Code generated from an EBNF grammar; DO NOT EDIT.")
	fmt.Fprintf(w, "package %s\n\n", pkg)

	fmt.Fprintln(w, "// TokenType identifies the lexical or syntactic class of a token or, when")
	fmt.Fprintln(w, "// IncludeNonterminals was set at generation time, a parser rule.")
	fmt.Fprintln(w, "type TokenType int")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "const (")
	fmt.Fprintln(w, "\tTokInvalid TokenType = iota")
	for _, e := range entries {
		if e.section != "" {
			fmt.Fprintf(w, "\n\tTT%s\n", e.section)
			continue
		}
		fmt.Fprintf(w, "\tTok%s\n", e.name)
	}
	if opts.IncludeNonterminals {
		fmt.Fprintln(w, "\n\tTTNonterminals")
		for _, d := range g.Order {
			if ruleEligible(d) {
				fmt.Fprintf(w, "\tR%s\n", common.EscapeDollars(d.Name))
			}
		}
	}
	fmt.Fprintln(w, "\n\tTTMax")
	fmt.Fprintln(w, ")")
	fmt.Fprintln(w)

	writeStringFunc(w, entries, g, opts)
	writeNameFunc(w, entries, g, opts)
	writeSectionPredicates(w, opts)

	return nil
}

func ruleEligible(d *ir.Definition) bool {
	return d.Op != symbols.Transparent && len(d.BackRefs) > 0 && d.Root != nil
}

// TTMax returns the numeric value the TokInvalid/TTLiterals/TTKeywords/
// TTSpecials/TTMax enum generated for g would assign to its TTMax sentinel,
// not counting any nonterminal rule ids IncludeNonterminals would add. A
// companion rule-id enum (see package syntree) bases its own numbering on
// this value so the two generated id spaces never collide when combined.
func TTMax(g *ir.Grammar) int {
	return len(buildEntries(g)) + 1
}

func writeStringFunc(w io.Writer, entries []entry, g *ir.Grammar, opts Options) {
	fmt.Fprintln(w, "// TokenTypeString returns the pretty (punctuation-preserving) spelling of t.")
	fmt.Fprintln(w, "func TokenTypeString(t TokenType) string {")
	fmt.Fprintln(w, "\tswitch t {")
	fmt.Fprintln(w, "\tcase TokInvalid:")
	fmt.Fprintln(w, "\t\treturn \"<invalid>\"")
	for _, e := range entries {
		if e.section != "" || e.literal == "" {
			continue
		}
		fmt.Fprintf(w, "\tcase Tok%s:\n\t\treturn %q\n", e.name, e.literal)
	}
	if opts.IncludeNonterminals {
		for _, d := range g.Order {
			if ruleEligible(d) {
				name := common.EscapeDollars(d.Name)
				fmt.Fprintf(w, "\tcase R%s:\n\t\treturn %q\n", name, d.Name)
			}
		}
	}
	fmt.Fprintln(w, "\tdefault:")
	fmt.Fprintln(w, "\t\treturn \"\"")
	fmt.Fprintln(w, "\t}")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
}

func writeNameFunc(w io.Writer, entries []entry, g *ir.Grammar, opts Options) {
	fmt.Fprintln(w, "// TokenTypeName returns the bare Go identifier naming t, as written above.")
	fmt.Fprintln(w, "func TokenTypeName(t TokenType) string {")
	fmt.Fprintln(w, "\tswitch t {")
	fmt.Fprintln(w, "\tcase TokInvalid:")
	fmt.Fprintln(w, "\t\treturn \"TokInvalid\"")
	for _, e := range entries {
		if e.section != "" || e.literal == "" {
			continue
		}
		fmt.Fprintf(w, "\tcase Tok%s:\n\t\treturn %q\n", e.name, "Tok"+e.name)
	}
	if opts.IncludeNonterminals {
		for _, d := range g.Order {
			if ruleEligible(d) {
				name := common.EscapeDollars(d.Name)
				fmt.Fprintf(w, "\tcase R%s:\n\t\treturn %q\n", name, "R"+name)
			}
		}
	}
	fmt.Fprintln(w, "\tdefault:")
	fmt.Fprintln(w, "\t\treturn \"\"")
	fmt.Fprintln(w, "\t}")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
}

func writeSectionPredicates(w io.Writer, opts Options) {
	fmt.Fprintln(w, "func TokenTypeIsLiteral(t TokenType) bool { return t > TTLiterals && t < TTKeywords }")
	fmt.Fprintln(w, "func TokenTypeIsKeyword(t TokenType) bool { return t > TTKeywords && t < TTSpecials }")
	if opts.IncludeNonterminals {
		fmt.Fprintln(w, "func TokenTypeIsSpecial(t TokenType) bool { return t > TTSpecials && t < TTNonterminals }")
		fmt.Fprintln(w, "func TokenTypeIsNonterminal(t TokenType) bool { return t > TTNonterminals && t < TTMax }")
	} else {
		fmt.Fprintln(w, "func TokenTypeIsSpecial(t TokenType) bool { return t > TTSpecials && t < TTMax }")
	}
}
