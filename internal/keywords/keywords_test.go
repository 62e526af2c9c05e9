package keywords_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio/internal/keywords"
)

func TestEmpty(t *testing.T) {
	assert.False(t, keywords.Empty.Has("if"))
}

func TestOf(t *testing.T) {
	set := keywords.Of("if", "else", "while")
	assert.True(t, set.Has("if"))
	assert.True(t, set.Has("while"))
	assert.False(t, set.Has("for"))
}

func TestLoad(t *testing.T) {
	set, err := keywords.Load(strings.NewReader("if else\nwhile\n\tfor  "))
	require.NoError(t, err)
	assert.True(t, set.Has("if"))
	assert.True(t, set.Has("else"))
	assert.True(t, set.Has("while"))
	assert.True(t, set.Has("for"))
	assert.False(t, set.Has("switch"))
}

func TestLoadEmpty(t *testing.T) {
	set, err := keywords.Load(strings.NewReader("   \n\n  "))
	require.NoError(t, err)
	assert.False(t, set.Has(""))
}
