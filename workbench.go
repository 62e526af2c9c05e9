// Package ebnfstudio drives the grammar workbench pipeline end to end:
// lexing, parsing, resolution/analysis, and emission. cmd/ebnfc and
// internal/httpapi both build on the Session type here rather than wiring
// the internal/lex, internal/parse, and internal/analysis packages
// themselves, so both front ends see identical pipeline behavior.
package ebnfstudio

import (
	"fmt"
	"io"

	"github.com/grammarkit/ebnfstudio/internal/analysis"
	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/emit/antlr"
	"github.com/grammarkit/ebnfstudio/internal/emit/cocor"
	"github.com/grammarkit/ebnfstudio/internal/emit/llgen"
	"github.com/grammarkit/ebnfstudio/internal/emit/syntree"
	"github.com/grammarkit/ebnfstudio/internal/emit/tokentype"
	"github.com/grammarkit/ebnfstudio/internal/ir"
	"github.com/grammarkit/ebnfstudio/internal/keywords"
	"github.com/grammarkit/ebnfstudio/internal/lex"
	"github.com/grammarkit/ebnfstudio/internal/parse"
	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

// Session holds one grammar source through the full pipeline: the resolved,
// analyzed grammar and the findings accumulated along the way.
type Session struct {
	Grammar *ir.Grammar
	Sink    *ebnferr.CollectingSink
}

// Load reads EBNF source from r, parses it, and runs the resolver/analyzer
// pass. When err is nil the returned Session is non-nil; check Session.OK (or
// Sink.FatalCount) to decide whether the grammar is usable for emission, per
// the propagation policy in §7 of the specification.
func Load(r io.Reader, kw keywords.Set) (*Session, error) {
	if kw == nil {
		kw = keywords.Empty
	}
	tbl := &symbols.Table{}
	lx, err := lex.New(r, kw, tbl)
	if err != nil {
		return nil, fmt.Errorf("open token source: %w", err)
	}

	sink := ebnferr.NewCollectingSink()
	p := parse.New(lx, sink)
	g := p.Parse()
	analysis.Run(g, sink)

	return &Session{Grammar: g, Sink: sink}, nil
}

// OK reports whether the run produced no fatal findings, per §6's exit-code
// rule: zero on success, non-zero when the error counter is non-zero at end
// of analysis.
func (s *Session) OK() bool {
	return s.Sink.FatalCount() == 0
}

// EmitANTLR writes the ANTLR-style grammar for the session to w.
func (s *Session) EmitANTLR(w io.Writer, opts antlr.Options) error {
	return antlr.Generate(w, s.Grammar, opts)
}

// EmitCocoR writes the Coco/R-style .atg grammar for the session to w.
func (s *Session) EmitCocoR(w io.Writer, opts cocor.Options) error {
	return cocor.Generate(w, s.Grammar, opts)
}

// EmitLLgen writes the LL(n)-style grammar for the session to w.
func (s *Session) EmitLLgen(w io.Writer, opts llgen.Options) error {
	return llgen.Generate(w, s.Grammar, opts)
}

// EmitTokenType writes the token-type enumeration scaffold for the session
// to w.
func (s *Session) EmitTokenType(w io.Writer, opts tokentype.Options) error {
	return tokentype.Generate(w, s.Grammar, opts)
}

// EmitSynTree writes the syntax-tree scaffold for the session to w.
func (s *Session) EmitSynTree(w io.Writer, opts syntree.Options) error {
	return syntree.Generate(w, s.Grammar, opts)
}

// Summary is a compact, JSON-friendly view of a Session's analysis results,
// used by the --repl mode and the internal/httpapi diagnostics endpoint.
type Summary struct {
	Definitions []DefinitionSummary `json:"definitions"`
	Findings    []ebnferr.Entry     `json:"findings"`
	FatalCount  int                 `json:"fatal_count"`
}

// DefinitionSummary reports the four boolean analysis properties for one
// production, plus how many places reference it.
type DefinitionSummary struct {
	Name                  string `json:"name"`
	Nullable              bool   `json:"nullable"`
	Repeatable            bool   `json:"repeatable"`
	DirectLeftRecursive   bool   `json:"direct_left_recursive"`
	IndirectLeftRecursive bool   `json:"indirect_left_recursive"`
	BackRefCount          int    `json:"back_ref_count"`
}

// Summarize builds a Summary from the session's current grammar and sink
// state. It may be called at any point, including mid-REPL before a final
// FinishSyntax, though the boolean properties only reflect definitions that
// have gone through at least one analysis pass.
func (s *Session) Summarize() Summary {
	sum := Summary{
		Findings:   s.Sink.Entries(),
		FatalCount: s.Sink.FatalCount(),
	}
	for _, d := range s.Grammar.Order {
		sum.Definitions = append(sum.Definitions, DefinitionSummary{
			Name:                  d.Name,
			Nullable:              d.Nullable,
			Repeatable:            d.Repeatable,
			DirectLeftRecursive:   d.DirectLeftRecursive,
			IndirectLeftRecursive: d.IndirectLeftRecursive,
			BackRefCount:          len(d.BackRefs),
		})
	}
	return sum
}
