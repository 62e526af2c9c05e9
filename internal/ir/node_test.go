package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grammarkit/ebnfstudio/internal/ir"
	"github.com/grammarkit/ebnfstudio/internal/symbols"
)

func termNode(value string) *ir.Node {
	return ir.NewNode(ir.Terminal, nil, nil, symbols.Token{Kind: symbols.Literal, Value: value})
}

func TestGetLlkParsesDepth(t *testing.T) {
	pred := ir.NewNode(ir.PredicateNode, nil, nil, symbols.Token{Value: "LL:3"})
	assert.Equal(t, 3, pred.GetLlk())

	notPred := termNode("x")
	assert.Equal(t, 0, notPred.GetLlk())

	badPred := ir.NewNode(ir.PredicateNode, nil, nil, symbols.Token{Value: "AST"})
	assert.Equal(t, 0, badPred.GetLlk())
}

func TestDoIgnoreDirectAndTransitive(t *testing.T) {
	skipped := termNode("a")
	skipped.Token.Op = symbols.Skip
	assert.True(t, skipped.DoIgnore())

	def := &ir.Definition{Name: "A", Op: symbols.Skip}
	ref := ir.NewNode(ir.Nonterminal, nil, nil, symbols.Token{Value: "A"})
	ref.Resolved = def
	assert.True(t, ref.DoIgnore())

	plain := termNode("b")
	assert.False(t, plain.DoIgnore())
}

func TestIsContainer(t *testing.T) {
	seq := ir.NewNode(ir.Sequence, nil, nil, symbols.Token{})
	alt := ir.NewNode(ir.Alternative, nil, nil, symbols.Token{})
	term := termNode("x")
	assert.True(t, seq.IsContainer())
	assert.True(t, alt.IsContainer())
	assert.False(t, term.IsContainer())
}

func TestFirstVisibleElementOfSequence(t *testing.T) {
	seq := ir.NewNode(ir.Sequence, nil, nil, symbols.Token{})
	first := ir.NewNode(ir.Nonterminal, nil, seq, symbols.Token{Value: "A"})
	ir.NewNode(ir.Terminal, nil, seq, symbols.Token{Value: "b"})

	got := ir.FirstVisibleElementOf(seq)
	if assert.NotNil(t, got) {
		assert.Same(t, first, got)
	}
}

func TestFirstVisibleElementOfSkipsLeadingPredicate(t *testing.T) {
	seq := ir.NewNode(ir.Sequence, nil, nil, symbols.Token{})
	ir.NewNode(ir.PredicateNode, nil, seq, symbols.Token{Value: "LL:1"})
	term := ir.NewNode(ir.Terminal, nil, seq, symbols.Token{Value: "a"})

	got := ir.FirstVisibleElementOf(seq)
	if assert.NotNil(t, got) {
		assert.Same(t, term, got)
	}
}

func TestFirstVisibleElementOfAlternative(t *testing.T) {
	alt := ir.NewNode(ir.Alternative, nil, nil, symbols.Token{})
	a := ir.NewNode(ir.Terminal, nil, alt, symbols.Token{Value: "a"})
	_ = a
	first := ir.FirstVisibleElementOf(alt)
	if assert.NotNil(t, first) {
		assert.Equal(t, "a", first.Token.Value)
	}
}

func TestFirstPredicateOf(t *testing.T) {
	seq := ir.NewNode(ir.Sequence, nil, nil, symbols.Token{})
	pred := ir.NewNode(ir.PredicateNode, nil, seq, symbols.Token{Value: "LL:1"})
	ir.NewNode(ir.Terminal, nil, seq, symbols.Token{Value: "a"})

	found := ir.FirstPredicateOf(seq)
	assert.Same(t, pred, found)

	noPred := ir.NewNode(ir.Sequence, nil, nil, symbols.Token{})
	ir.NewNode(ir.Terminal, nil, noPred, symbols.Token{Value: "a"})
	assert.Nil(t, ir.FirstPredicateOf(noPred))
}
