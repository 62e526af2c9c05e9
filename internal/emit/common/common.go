// Package common holds the structural rules and naming helpers shared by
// every backend emitter: parenthesisation decisions, terminal collection
// and ordering, and the target-agnostic name-escaping rules (ordering,
// dollar-escaping, symbol-to-identifier mapping, literal-vs-keyword
// classification).
package common

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/grammarkit/ebnfstudio/internal/ir"
)

// NeedsParens reports whether node, appearing as a non-top-level child, must
// be wrapped in grouping parentheses by a target emitter. A node carrying a
// non-One quantifier is already delimited by the target's own optional/
// repetition bracketing, so this only covers the bare-One case: an inner
// Alternative, or a multi-child Sequence, that isn't the top of its
// production.
func NeedsParens(node *ir.Node, topLevel bool) bool {
	if topLevel || node.Quant != ir.One {
		return false
	}
	switch node.Kind {
	case ir.Alternative:
		return true
	case ir.Sequence:
		return len(node.Children) > 1
	default:
		return false
	}
}

// CollectTerminals walks every non-Skip definition in g and returns the
// distinct Terminal/pseudoterminal values, in first-appearance
// (source-declaration) order: stable, deterministic, case-sensitive.
func CollectTerminals(g *ir.Grammar) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range g.Order {
		if d.DoIgnore() {
			continue
		}
		collectTerminalsFrom(d.Root, seen, &out)
	}
	return out
}

func collectTerminalsFrom(n *ir.Node, seen map[string]bool, out *[]string) {
	if n == nil || n.DoIgnore() {
		return
	}
	switch n.Kind {
	case ir.Terminal:
		addOnce(n.Token.Value, seen, out)
	case ir.Nonterminal:
		if n.Resolved == nil {
			addOnce(n.Token.Value, seen, out)
		}
	}
	for _, c := range n.Children {
		collectTerminalsFrom(c, seen, out)
	}
}

func addOnce(v string, seen map[string]bool, out *[]string) {
	if seen[v] {
		return
	}
	seen[v] = true
	*out = append(*out, v)
}

// CollectTerminalProductions returns the names of definitions declared with
// an empty body (Root == nil): productions used purely to name a token, as
// opposed to describing a derivation. These are valid, declared-but-empty
// productions; the ANTLR/Coco/LL(n) emitters surface
// them in their tokens/TOKENS blocks rather than as parser rules.
func CollectTerminalProductions(g *ir.Grammar) []string {
	var out []string
	for _, d := range g.Order {
		if d.DoIgnore() {
			continue
		}
		if d.Root == nil {
			out = append(out, d.Name)
		}
	}
	return out
}

// ContainsAlnum reports whether s contains at least one alphanumeric rune,
// used by the token-type scaffold to draw the Literals/Keywords boundary.
func ContainsAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// EscapeDollars replaces '$' with the identifier-safe text "Dollar" so
// identifiers containing it (legal in the `[A-Za-z0-9_$]` identifier
// charset) can be used as target-language identifiers.
func EscapeDollars(s string) string {
	return strings.ReplaceAll(s, "$", "Dollar")
}

var punctNames = map[rune]string{
	'+': "Plus", '-': "Minus", '*': "Star", '/': "Slash", '%': "Percent",
	'(': "LPar", ')': "RPar", '[': "LBrack", ']': "RBrack", '{': "LBrace", '}': "RBrace",
	';': "Semi", ',': "Comma", '.': "Dot", ':': "Colon", '=': "Eq",
	'<': "Lt", '>': "Gt", '!': "Bang", '&': "Amp", '|': "Pipe", '^': "Caret",
	'~': "Tilde", '?': "Quest", '#': "Hash", '@': "At", '\'': "Quote", '"': "DQuote",
	'\\': "Backslash", '_': "Underscore", '$': "Dollar",
}

// SymToString turns an arbitrary terminal value into an identifier-safe
// name suitable for a target token/rule name: identifier-shaped values pass
// through unchanged (case-normalisation is left to the caller; the ANTLR and
// Coco/R emitters both upper-case the result); punctuation runs are spelled
// out via a fixed name table; any other character is spelled as "Ch"
// followed by its decimal code point, so the result is always a valid
// identifier.
func SymToString(s string) string {
	if s == "" {
		return "Empty"
	}
	if isIdentifierShaped(s) {
		return EscapeDollars(s)
	}
	var sb strings.Builder
	for _, r := range s {
		if name, ok := punctNames[r]; ok {
			sb.WriteString(name)
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		sb.WriteString("Ch")
		sb.WriteString(strconv.Itoa(int(r)))
	}
	if sb.Len() == 0 {
		return "Empty"
	}
	return sb.String()
}

func isIdentifierShaped(s string) bool {
	for i, r := range s {
		if i == 0 && !(unicode.IsLetter(r) || r == '_' || r == '$') {
			return false
		}
		if i > 0 && !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			return false
		}
	}
	return true
}
