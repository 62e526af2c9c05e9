package ir

import "github.com/grammarkit/ebnfstudio/internal/symbols"

// Definition is a named production: it owns a single root Node (possibly
// nil for a declared-but-empty production) and carries the four boolean
// properties filled in by the analyzer.
type Definition struct {
	Name string // interned identifier
	Op   symbols.Op
	Root *Node

	// BackRefs is the set of Nonterminal nodes (anywhere in the grammar)
	// that reference this definition, in source-traversal (insertion)
	// order.
	BackRefs []*Node

	Nullable               bool
	Repeatable             bool
	DirectLeftRecursive    bool
	IndirectLeftRecursive  bool

	// Token is the Production token that introduced this definition,
	// retained for source-position lookups and error reporting.
	Token symbols.Token
}

// DoIgnore reports whether this definition is Skip-annotated and so
// contributes no output.
func (d *Definition) DoIgnore() bool {
	return d.Op == symbols.Skip
}

// Unused reports whether this definition has no back-references and is not
// the start symbol. Emitters may omit such definitions.
func (d *Definition) Unused(isStart bool) bool {
	return !isStart && len(d.BackRefs) == 0
}
