package cocor_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio/internal/analysis"
	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/emit/cocor"
	"github.com/grammarkit/ebnfstudio/internal/ir"
	"github.com/grammarkit/ebnfstudio/internal/lex"
	"github.com/grammarkit/ebnfstudio/internal/parse"
)

func buildGrammar(t *testing.T, src string) *ir.Grammar {
	t.Helper()
	lx, err := lex.New(strings.NewReader(src), nil, nil)
	require.NoError(t, err)
	sink := ebnferr.NewCollectingSink()
	p := parse.New(lx, sink)
	g := p.Parse()
	analysis.Run(g, sink)
	require.Zero(t, sink.FatalCount())
	return g
}

func TestTokenNameIsUpperCase(t *testing.T) {
	assert.Equal(t, "PLUS", cocor.TokenName("+"))
	assert.Equal(t, "A", cocor.TokenName("a"))
}

func TestGenerateWithoutAstHasNoSemanticActions(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a' B
B ::= 'b'`)

	var buf bytes.Buffer
	require.NoError(t, cocor.Generate(&buf, g, cocor.Options{MaxLookahead: 1}))
	out := buf.String()

	assert.Contains(t, out, "COMPILER S")
	assert.Contains(t, out, "TOKENS")
	assert.Contains(t, out, "PRODUCTIONS")
	assert.Contains(t, out, "END S.")
	assert.NotContains(t, out, "(. addTerminal(); .)")
}

func TestGenerateWithAstEmitsSemanticActions(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a' B
B ::= 'b'`)

	var buf bytes.Buffer
	require.NoError(t, cocor.Generate(&buf, g, cocor.Options{MaxLookahead: 1, BuildAst: true}))
	out := buf.String()

	assert.Contains(t, out, "var synRoot *SynTree")
	assert.Contains(t, out, "synStack = append(synStack, synRoot)")
	assert.Contains(t, out, "addTerminal();")
	assert.Contains(t, out, "NewSynTreeRule(RB)")
}

func TestGenerateUnresolvedPredicateBecomesComment(t *testing.T) {
	g := buildGrammar(t, `S ::= \AST\ 'a'`)

	var buf bytes.Buffer
	require.NoError(t, cocor.Generate(&buf, g, cocor.Options{MaxLookahead: 1}))
	assert.Contains(t, buf.String(), "unresolved look-ahead predicate")
}

func TestGenerateRendersPredicateAsPeekConditions(t *testing.T) {
	g := buildGrammar(t, `S ::= \LL:2\ 'a' 'b' | 'a' 'c'`)

	var buf bytes.Buffer
	require.NoError(t, cocor.Generate(&buf, g, cocor.Options{MaxLookahead: 2}))
	assert.Contains(t, buf.String(), "IF( peek(1) == _A && peek(2) == _B )")
}
