package ebnfstudio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio"
	"github.com/grammarkit/ebnfstudio/internal/emit/antlr"
	"github.com/grammarkit/ebnfstudio/internal/emit/cocor"
	"github.com/grammarkit/ebnfstudio/internal/emit/llgen"
	"github.com/grammarkit/ebnfstudio/internal/emit/syntree"
	"github.com/grammarkit/ebnfstudio/internal/emit/tokentype"
	"github.com/grammarkit/ebnfstudio/internal/keywords"
)

func TestLoadSimpleAlternative(t *testing.T) {
	src := `S ::= 'a' | 'b'`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.True(t, sess.OK())

	sum := sess.Summarize()
	require.Len(t, sum.Definitions, 1)
	assert.Equal(t, "S", sum.Definitions[0].Name)
	assert.False(t, sum.Definitions[0].Nullable)
	assert.False(t, sum.Definitions[0].Repeatable)
}

func TestLoadNullableAndRepeatable(t *testing.T) {
	src := `
S ::= A B
A ::= [ 'x' ]
B ::= { 'y' }
`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.True(t, sess.OK())

	sum := sess.Summarize()
	byName := make(map[string]ebnfstudio.DefinitionSummary)
	for _, d := range sum.Definitions {
		byName[d.Name] = d
	}
	assert.True(t, byName["A"].Nullable)
	assert.True(t, byName["B"].Nullable)
	assert.True(t, byName["B"].Repeatable)
	assert.True(t, byName["S"].Nullable, "a sequence of two nullable definitions is itself nullable")
}

func TestDirectLeftRecursion(t *testing.T) {
	src := `S ::= S 'a' | 'b'`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)

	sum := sess.Summarize()
	require.Len(t, sum.Definitions, 1)
	assert.True(t, sum.Definitions[0].DirectLeftRecursive)
	assert.False(t, sum.Definitions[0].IndirectLeftRecursive)
}

func TestIndirectLeftRecursion(t *testing.T) {
	src := `
A ::= B 'a'
B ::= A 'b' | 'c'
`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)

	sum := sess.Summarize()
	byName := make(map[string]ebnfstudio.DefinitionSummary)
	for _, d := range sum.Definitions {
		byName[d.Name] = d
	}
	assert.True(t, byName["A"].IndirectLeftRecursive)
	assert.True(t, byName["B"].IndirectLeftRecursive)
	assert.False(t, byName["A"].DirectLeftRecursive)
}

func TestUnresolvedReferenceIsReported(t *testing.T) {
	src := `S ::= Undefined 'x'`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Sink.Entries())
}

func TestEmitANTLR(t *testing.T) {
	src := `S ::= 'a' | 'b'`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.True(t, sess.OK())

	var buf bytes.Buffer
	require.NoError(t, sess.EmitANTLR(&buf, antlr.Options{}))
	out := buf.String()
	assert.Contains(t, out, "grammar S;")
	assert.Contains(t, out, "language = Cpp;")
	assert.Contains(t, out, "s :")
}

func TestEmitCocoRPredicate(t *testing.T) {
	src := `
S ::= \LL:2\ 'a' 'b' | 'a' 'c'
`
	sess, err := ebnfstudio.Load(strings.NewReader(src), keywords.Empty)
	require.NoError(t, err)
	require.True(t, sess.OK())

	var buf bytes.Buffer
	require.NoError(t, sess.EmitCocoR(&buf, cocor.Options{MaxLookahead: 2}))
	out := buf.String()
	assert.Contains(t, out, "IF( peek(1) == _A && peek(2) == _B )")
}

func TestEmitLLgenRendersPredicateAsComment(t *testing.T) {
	src := `
S ::= \LL:1\ A | B
A ::= 'a'
B ::= 'b'
`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.True(t, sess.OK())

	var buf bytes.Buffer
	require.NoError(t, sess.EmitLLgen(&buf, llgen.Options{MaxLookahead: 1}))
	assert.Contains(t, buf.String(), "/* LL(")
}

func TestGeneratedTrioShareRuleIdentifiers(t *testing.T) {
	src := `
S ::= 'a' B C
B ::= 'b'
C! ::= 'c'
`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.True(t, sess.OK())

	var cocorBuf, ttBuf, synBuf bytes.Buffer
	require.NoError(t, sess.EmitCocoR(&cocorBuf, cocor.Options{MaxLookahead: 1, BuildAst: true}))
	require.NoError(t, sess.EmitTokenType(&ttBuf, tokentype.Options{IncludeNonterminals: true}))
	require.NoError(t, sess.EmitSynTree(&synBuf, syntree.Options{IncludeNt: true}))

	// Every rule id that cocor.go's AST-building actions reference must be
	// declared by both companion scaffolds, so the generated trio compiles
	// together.
	for _, name := range []string{"RB", "RC"} {
		assert.Contains(t, cocorBuf.String(), "NewSynTreeRule("+name+")", "cocor output should reference %s", name)
		assert.Contains(t, ttBuf.String(), name, "tokentype output should declare %s", name)
		assert.Contains(t, synBuf.String(), name, "syntree output should declare %s", name)
	}
}

func TestSkipIsTransitivelyOmitted(t *testing.T) {
	src := `
S ::= A B
A- ::= 'skip-me'
B ::= 'b'
`
	sess, err := ebnfstudio.Load(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.True(t, sess.OK())

	var buf bytes.Buffer
	require.NoError(t, sess.EmitANTLR(&buf, antlr.Options{}))
	assert.NotContains(t, buf.String(), "a :")
}
