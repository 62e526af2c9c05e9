package llgen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio/internal/analysis"
	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/emit/llgen"
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

func TestTokenAndRuleNaming(t *testing.T) {
	assert.Equal(t, "TOK_Plus", llgen.TokenName("+"))
	assert.Equal(t, "Foo", llgen.RuleName("Foo"))
}

func TestGenerateProducesStartTokensAndRules(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a' B
B ::= 'b'`)

	var buf bytes.Buffer
	require.NoError(t, llgen.Generate(&buf, g, llgen.Options{MaxLookahead: 1}))
	out := buf.String()

	assert.Contains(t, out, "%start S, S;")
	assert.Contains(t, out, "%token TOK_a;")
	assert.Contains(t, out, "%token TOK_b;")
	assert.Contains(t, out, "S:\n\t")
	assert.Contains(t, out, "B:\n\t")
}

func TestGenerateRendersResolvedPredicateAsFirstSetComment(t *testing.T) {
	g := buildGrammar(t, `S ::= \LL:1\ A | B
A ::= 'a'
B ::= 'b'`)

	var buf bytes.Buffer
	require.NoError(t, llgen.Generate(&buf, g, llgen.Options{MaxLookahead: 1}))
	out := buf.String()
	assert.Contains(t, out, "/* LL(1:")
}
