// Package syntree emits a generic syntax-tree scaffold: a SynTree struct
// (a token plus an ordered slice of children), an optional RuleID enum
// naming every reachable, non-Transparent definition, and a name-lookup
// function resolving either a token type or a rule id to its source name.
package syntree

import (
	"fmt"
	"io"
	"sort"

	"github.com/grammarkit/ebnfstudio/internal/emit/common"
	"github.com/grammarkit/ebnfstudio/internal/emit/tokentype"
	"github.com/grammarkit/ebnfstudio/internal/ir"
	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

// Options controls scaffold shape.
type Options struct {
	Namespace string // Go package name; empty uses "syntree"
	IncludeNt bool   // emit the RuleID enum alongside the tree type
}

// Generate writes the syntax-tree Go source file to w.
func Generate(w io.Writer, g *ir.Grammar, opts Options) error {
	pkg := opts.Namespace
	if pkg == "" {
		pkg = "syntree"
	}

	fmt.Fprintln(w, "// Code generated from an EBNF grammar; DO NOT EDIT.")
	fmt.Fprintf(w, "package %s\n\n", pkg)

	names := ruleNames(g)

	if opts.IncludeNt {
		base := tokentype.TTMax(g)
		fmt.Fprintln(w, "// RuleID identifies which production built a given SynTree node, when")
		fmt.Fprintln(w, "// it is not a plain terminal leaf. Its numbering begins one past the")
		fmt.Fprintln(w, "// companion token-type enum's TTMax sentinel, so the two id spaces don't")
		fmt.Fprintln(w, "// collide when combined.")
		fmt.Fprintln(w, "type RuleID int")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "const (")
		fmt.Fprintf(w, "\tRFirst RuleID = iota + %d\n", base+1)
		for _, n := range names {
			fmt.Fprintf(w, "\tR%s\n", n)
		}
		fmt.Fprintln(w, "\tRLast")
		fmt.Fprintln(w, ")")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "// Token is a self-contained leaf lexeme: this scaffold doesn't depend on")
	fmt.Fprintln(w, "// the grammar tool's own lexer types, so callers can populate it from")
	fmt.Fprintln(w, "// whatever scanner they use.")
	fmt.Fprintln(w, "type Token struct {")
	fmt.Fprintln(w, "\tType  int")
	fmt.Fprintln(w, "\tValue string")
	fmt.Fprintln(w, "\tLine  int")
	fmt.Fprintln(w, "\tCol   int")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "// SynTree is a single node of a parsed syntax tree: either a terminal leaf")
	fmt.Fprintln(w, "// (Rule == 0, Token populated) or an interior node standing for a")
	fmt.Fprintln(w, "// production match (Rule identifies which one, Children holds its parts).")
	fmt.Fprintln(w, "type SynTree struct {")
	if opts.IncludeNt {
		fmt.Fprintln(w, "\tRule     RuleID")
	}
	fmt.Fprintln(w, "\tToken    Token")
	fmt.Fprintln(w, "\tChildren []*SynTree")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "// NewSynTree wraps a single terminal token as a leaf node.")
	fmt.Fprintln(w, "func NewSynTree(tok Token) *SynTree {")
	fmt.Fprintln(w, "\treturn &SynTree{Token: tok}")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)

	if opts.IncludeNt {
		fmt.Fprintln(w, "// NewSynTreeRule starts an interior node for the given production.")
		fmt.Fprintln(w, "func NewSynTreeRule(rule RuleID) *SynTree {")
		fmt.Fprintln(w, "\treturn &SynTree{Rule: rule}")
		fmt.Fprintln(w, "}")
		fmt.Fprintln(w)

		fmt.Fprintln(w, "// RuleName returns the source grammar name for a RuleID, or \"\" for RFirst/RLast.")
		fmt.Fprintln(w, "func RuleName(r RuleID) string {")
		fmt.Fprintln(w, "\tswitch r {")
		for _, d := range g.Order {
			if ruleEligible(d) {
				fmt.Fprintf(w, "\tcase R%s:\n\t\treturn %q\n", common.EscapeDollars(d.Name), d.Name)
			}
		}
		fmt.Fprintln(w, "\tdefault:")
		fmt.Fprintln(w, "\t\treturn \"\"")
		fmt.Fprintln(w, "\t}")
		fmt.Fprintln(w, "}")
	}

	return nil
}

func ruleEligible(d *ir.Definition) bool {
	return d.Op != symbols.Transparent && len(d.BackRefs) > 0 && d.Root != nil
}

func ruleNames(g *ir.Grammar) []string {
	var names []string
	for _, d := range g.Order {
		if ruleEligible(d) {
			names = append(names, common.EscapeDollars(d.Name))
		}
	}
	sort.Strings(names)
	return names
}
