package firstfollow_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio/internal/analysis"
	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
	"github.com/grammarkit/ebnfstudio/internal/firstfollow"
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

func TestComputeSingleTerminalDefinition(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a'`)
	table := firstfollow.Compute(g, 1)
	assert.Equal(t, 1, table.K())

	set := table.DefSet("S")
	require.Len(t, set, 1)
	assert.Contains(t, set, "a")
}

func TestComputeAlternativeUnionsBranches(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a' | 'b'`)
	table := firstfollow.Compute(g, 1)

	set := table.DefSet("S")
	require.Len(t, set, 2)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
}

func TestComputeSequenceConcatenatesUpToK(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a' 'b' 'c'`)
	table := firstfollow.Compute(g, 2)

	set := table.DefSet("S")
	require.Len(t, set, 1)
	assert.Contains(t, set, "a\x1fb")
}

func TestComputeZeroOrOneAddsEmptyTuple(t *testing.T) {
	g := buildGrammar(t, `S ::= [ 'a' ] 'b'`)
	table := firstfollow.Compute(g, 1)

	set := table.DefSet("S")
	require.Len(t, set, 2)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
}

func TestComputeZeroOrMoreReachesFixpoint(t *testing.T) {
	g := buildGrammar(t, `S ::= { 'a' } 'b'`)
	table := firstfollow.Compute(g, 1)

	set := table.DefSet("S")
	require.Len(t, set, 2)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
}

func TestComputeNonterminalReferenceUsesResolvedDefinition(t *testing.T) {
	g := buildGrammar(t, `S ::= A 'c'
A ::= 'a' | 'b'`)
	table := firstfollow.Compute(g, 1)

	set := table.DefSet("S")
	require.Len(t, set, 2)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
}

func TestFirstOfLookaheadReturnsSuffixAdmissibleTerminals(t *testing.T) {
	g := buildGrammar(t, `S ::= \LL:1\ 'a' 'b' | 'c'`)
	table := firstfollow.Compute(g, 1)

	def, ok := g.Definition("S")
	require.True(t, ok)
	seq := def.Root.Children[0]
	require.Equal(t, ir.Sequence, seq.Kind)

	perDepth, err := table.FirstOfLookahead(1, seq, 1)
	require.NoError(t, err)
	require.Len(t, perDepth, 1)
	assert.True(t, perDepth[0]["a"])
}

func TestFirstOfLookaheadRejectsNonPositiveDepth(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a'`)
	table := firstfollow.Compute(g, 1)

	def, _ := g.Definition("S")
	_, err := table.FirstOfLookahead(0, def.Root, 0)
	assert.Error(t, err)
}

func TestFirstOfLookaheadRejectsNonSequenceNode(t *testing.T) {
	g := buildGrammar(t, `S ::= 'a'`)
	table := firstfollow.Compute(g, 1)

	def, _ := g.Definition("S")
	_, err := table.FirstOfLookahead(1, def.Root, 0)
	assert.Error(t, err)
}

func TestSortedTerminalsIsDeterministic(t *testing.T) {
	set := map[string]bool{"c": true, "a": true, "b": true}
	assert.Equal(t, []string{"a", "b", "c"}, firstfollow.SortedTerminals(set))
}
