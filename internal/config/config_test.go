package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio/internal/config"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    config.Target
		wantErr bool
	}{
		{"antlr", config.TargetAntlr, false},
		{"COCOR", config.TargetCocoR, false},
		{" llgen ", config.TargetLLgen, false},
		{"all", config.TargetAll, false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		got, err := config.ParseTarget(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFillDefaults(t *testing.T) {
	cfg := config.Config{Grammar: "x.ebnf"}
	filled := cfg.FillDefaults()
	assert.Equal(t, config.TargetAll, filled.Target)
	assert.Equal(t, "ebnfout", filled.Namespace)
	assert.Equal(t, 4, filled.MaxLookahead)
}

func TestValidate(t *testing.T) {
	cfg := config.Config{}.FillDefaults()
	assert.Error(t, cfg.Validate(), "grammar path is required")

	cfg.Grammar = "x.ebnf"
	assert.NoError(t, cfg.Validate())

	cfg.Target = "bogus"
	assert.Error(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".ebnfc.toml")
	contents := `
grammar = "grammar.ebnf"
keywords = "keywords.txt"
out_dir = "gen"
target = "cocor"
namespace = "mygrammar"
build_ast = true
max_lookahead = 3
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "grammar.ebnf", cfg.Grammar)
	assert.Equal(t, "keywords.txt", cfg.Keywords)
	assert.Equal(t, "gen", cfg.OutDir)
	assert.Equal(t, config.TargetCocoR, cfg.Target)
	assert.Equal(t, "mygrammar", cfg.Namespace)
	assert.True(t, cfg.BuildAST)
	assert.Equal(t, 3, cfg.MaxLookahead)
}
