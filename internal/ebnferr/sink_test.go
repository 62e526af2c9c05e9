package ebnferr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grammarkit/ebnfstudio/internal/ebnferr"
)

func TestKindIsFatal(t *testing.T) {
	assert.True(t, ebnferr.Lexical.IsFatal())
	assert.True(t, ebnferr.Syntactic.IsFatal())
	assert.True(t, ebnferr.Structural.IsFatal())
	assert.False(t, ebnferr.Semantic.IsFatal())
	assert.False(t, ebnferr.Analysis.IsFatal())
}

func TestCollectingSink(t *testing.T) {
	sink := ebnferr.NewCollectingSink()
	assert.Equal(t, 0, sink.Count())
	assert.Equal(t, 0, sink.FatalCount())

	sink.Error(ebnferr.Syntactic, 1, 2, "bad token")
	sink.Errorf(ebnferr.Analysis, 3, 4, "definition %q is nullable", "S")

	assert.Equal(t, 2, sink.Count())
	assert.Equal(t, 1, sink.FatalCount())

	entries := sink.Entries()
	require := assert.New(t)
	require.Len(entries, 2)
	require.Equal(ebnferr.Syntactic, entries[0].Kind)
	require.Equal(1, entries[0].Line)
	require.Equal("bad token", entries[0].Message)
	require.Equal(`definition "S" is nullable`, entries[1].Message)

	sink.Reset()
	assert.Equal(t, 0, sink.Count())
	assert.Equal(t, 0, sink.FatalCount())
	assert.Empty(t, sink.Entries())
}

func TestEntryString(t *testing.T) {
	e := ebnferr.Entry{Kind: ebnferr.Lexical, Line: 5, Col: 9, Message: "bad char"}
	assert.Equal(t, "lexical:5:9: bad char", e.String())
}

func TestSinkInterface(t *testing.T) {
	var _ ebnferr.Sink = ebnferr.NewCollectingSink()
}
