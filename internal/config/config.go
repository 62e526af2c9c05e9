// Package config loads and validates the per-project .ebnfc.toml file: the
// set of emit targets, their output paths, and the flags that would
// otherwise have to be repeated on every command-line invocation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Target names one backend the Config asks to be emitted.
type Target string

const (
	TargetAntlr Target = "antlr"
	TargetCocoR Target = "cocor"
	TargetLLgen Target = "llgen"
	TargetAll   Target = "all"
)

// ParseTarget parses a string found on the command line or in a config file
// into a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TargetAntlr):
		return TargetAntlr, nil
	case string(TargetCocoR):
		return TargetCocoR, nil
	case string(TargetLLgen):
		return TargetLLgen, nil
	case string(TargetAll):
		return TargetAll, nil
	default:
		return "", fmt.Errorf("target not one of 'antlr', 'cocor', 'llgen', or 'all': %q", s)
	}
}

// Config is the full set of settings governing one grammar-compilation run.
type Config struct {
	// Grammar is the path to the .ebnf source file. Required.
	Grammar string `toml:"grammar"`

	// Keywords is the path to an optional keyword-list file.
	Keywords string `toml:"keywords"`

	// OutDir is the directory emitted artifacts are written to. Defaults to
	// the grammar file's own directory.
	OutDir string `toml:"out_dir"`

	// Target selects which backend(s) to emit. Defaults to TargetAll.
	Target Target `toml:"target"`

	// Namespace is the Go package name used by the tokentype and syntree
	// scaffold emitters. Defaults to "ebnfout".
	Namespace string `toml:"namespace"`

	// BuildAST, when set, tells the Coco/R emitter to include syntax-tree
	// construction actions.
	BuildAST bool `toml:"build_ast"`

	// IncludeNonterminals, when set, tells the tokentype and syntree
	// emitters to also enumerate parser rules, not just token kinds.
	IncludeNonterminals bool `toml:"include_nonterminals"`

	// MaxLookahead bounds the FIRST_k computation used to resolve
	// `\LL:n\` predicates. Defaults to 4.
	MaxLookahead int `toml:"max_lookahead"`
}

// Load reads and parses a .ebnfc.toml file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// FillDefaults returns a copy of cfg with unset fields set to their
// defaults.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.Target == "" {
		out.Target = TargetAll
	}
	if out.Namespace == "" {
		out.Namespace = "ebnfout"
	}
	if out.MaxLookahead < 1 {
		out.MaxLookahead = 4
	}
	return out
}

// Validate returns an error if cfg has invalid or missing required fields.
// Call it on the result of FillDefaults so defaulted fields aren't flagged.
func (cfg Config) Validate() error {
	if cfg.Grammar == "" {
		return fmt.Errorf("grammar: path to .ebnf source is required")
	}
	switch cfg.Target {
	case TargetAntlr, TargetCocoR, TargetLLgen, TargetAll:
	default:
		return fmt.Errorf("target: unknown target %q", cfg.Target)
	}
	if cfg.MaxLookahead < 1 {
		return fmt.Errorf("max_lookahead: must be at least 1, got %d", cfg.MaxLookahead)
	}
	return nil
}
