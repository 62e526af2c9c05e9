package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/grammarkit/ebnfstudio"
	"github.com/grammarkit/ebnfstudio/internal/config"
	"github.com/grammarkit/ebnfstudio/internal/emit/antlr"
	"github.com/grammarkit/ebnfstudio/internal/emit/cocor"
	"github.com/grammarkit/ebnfstudio/internal/emit/llgen"
	"github.com/grammarkit/ebnfstudio/internal/emit/syntree"
	"github.com/grammarkit/ebnfstudio/internal/emit/tokentype"
	"github.com/grammarkit/ebnfstudio/internal/keywords"
	"golang.org/x/text/encoding/charmap"
)

// runCompile loads the configured grammar, runs it through the workbench
// pipeline, prints any findings to stderr, and, if the grammar had no fatal
// findings, emits the requested backend target(s) plus the token-type and
// syntax-tree scaffolds into the output directory. It returns the process
// exit code to use.
func runCompile() int {
	cfg, err := loadConfig()
	if err != nil {
		exitf(ExitUsage, "%v", err)
		return ExitUsage
	}

	gf, err := os.Open(cfg.Grammar)
	if err != nil {
		exitf(ExitIO, "open grammar: %v", err)
		return ExitIO
	}
	defer gf.Close()

	kw := keywords.Empty
	if cfg.Keywords != "" {
		kf, err := os.Open(cfg.Keywords)
		if err != nil {
			exitf(ExitIO, "open keywords: %v", err)
			return ExitIO
		}
		loaded, err := keywords.Load(kf)
		kf.Close()
		if err != nil {
			exitf(ExitIO, "read keywords: %v", err)
			return ExitIO
		}
		kw = loaded
	}

	sess, err := ebnfstudio.Load(gf, kw)
	if err != nil {
		exitf(ExitIO, "load grammar: %v", err)
		return ExitIO
	}

	for _, e := range sess.Sink.Entries() {
		fmt.Fprintln(os.Stderr, e.String())
	}
	if !sess.OK() {
		fmt.Fprintf(os.Stderr, "%d fatal finding(s); no artifacts emitted\n", sess.Sink.FatalCount())
		return ExitGrammarErrors
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Dir(cfg.Grammar)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		exitf(ExitIO, "create outdir: %v", err)
		return ExitIO
	}

	base := baseName(cfg.Grammar)

	targets := []config.Target{cfg.Target}
	if cfg.Target == config.TargetAll {
		targets = []config.Target{config.TargetAntlr, config.TargetCocoR, config.TargetLLgen}
	}
	for _, t := range targets {
		var name string
		var emit func(io.Writer) error
		switch t {
		case config.TargetAntlr:
			name, emit = base+".g4", func(w io.Writer) error {
				return sess.EmitANTLR(w, antlr.Options{Lang: *flagLang})
			}
		case config.TargetCocoR:
			name, emit = base+".atg", func(w io.Writer) error {
				return sess.EmitCocoR(w, cocor.Options{BuildAst: cfg.BuildAST, MaxLookahead: cfg.MaxLookahead})
			}
		case config.TargetLLgen:
			name, emit = base+".g", func(w io.Writer) error {
				return sess.EmitLLgen(w, llgen.Options{MaxLookahead: cfg.MaxLookahead})
			}
		}
		if err := writeLatin1(filepath.Join(outDir, name), emit); err != nil {
			exitf(ExitIO, "write %s: %v", name, err)
			return ExitIO
		}
	}

	ttName := filepath.Join(outDir, base+"_tokentype.go")
	if err := writeUTF8(ttName, func(w io.Writer) error {
		return sess.EmitTokenType(w, tokentype.Options{Namespace: cfg.Namespace, IncludeNonterminals: cfg.IncludeNonterminals})
	}); err != nil {
		exitf(ExitIO, "write %s: %v", ttName, err)
		return ExitIO
	}

	stName := filepath.Join(outDir, base+"_syntree.go")
	if err := writeUTF8(stName, func(w io.Writer) error {
		return sess.EmitSynTree(w, syntree.Options{Namespace: cfg.Namespace, IncludeNt: cfg.IncludeNonterminals})
	}); err != nil {
		exitf(ExitIO, "write %s: %v", stName, err)
		return ExitIO
	}

	return ExitSuccess
}

// writeLatin1 writes an emitter's output through an ISO-8859-1 encoder, per
// the workbench's convention that generated grammar-tool sources (whose
// downstream toolchains are not reliably UTF-8 aware) are written in Latin-1.
func writeLatin1(path string, emit func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := charmap.ISO8859_1.NewEncoder().Writer(f)
	return emit(enc)
}

// writeUTF8 writes an emitter's output as-is: the Go scaffold sources are
// always plain UTF-8 regardless of the grammar-tool target's encoding.
func writeUTF8(path string, emit func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return emit(f)
}

func baseName(grammarPath string) string {
	base := filepath.Base(grammarPath)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
