/*
Ebnfc compiles an EBNF grammar description into the dialects expected by
several parser generators, along with companion token-type and syntax-tree
scaffolds.

Usage:

	ebnfc -g FILE [flags]
	ebnfc serve [flags]

Once a grammar has been parsed and analyzed, ebnfc emits one grammar file
per requested backend target (ANTLR-style, Coco/R-style, or LL(n)-style)
plus a token-type enumeration and syntax-tree scaffold pair, all written
into the output directory.

The flags are:

	-g, --grammar FILE
		Path to the .ebnf source file. Required unless a project config
		file supplies it.

	-k, --keywords FILE
		Path to an optional whitespace-separated keyword list file.

	-o, --outdir DIR
		Directory generated artifacts are written to. Defaults to the
		grammar file's own directory.

	-t, --target antlr|cocor|llgen|all
		Which backend(s) to emit. Defaults to "all".

	--ns NAMESPACE
		Package/namespace prefix for the token-type and syntax-tree
		scaffold.

	--ast
		Enable the Coco/R AST-building preamble. Defaults to true.

	--lang LANG
		ANTLR target host language. Defaults to "Cpp".

	-n, --max-lookahead N
		Bounded-k cap for the FIRST_k engine used to resolve look-ahead
		predicates. Defaults to 4.

	--repl
		Start an interactive session instead of compiling a file: read one
		grammar snippet at a time from stdin, parse and analyze it against
		the accumulating grammar, and print nullable/repeatable/
		left-recursive flags for the definitions just added.

	-v, --version
		Print the current version and exit.

The "serve" subcommand starts the optional HTTP API instead (see
internal/httpapi); its own flags are documented separately with
"ebnfc serve -h".
*/
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/grammarkit/ebnfstudio/internal/config"
	"github.com/grammarkit/ebnfstudio/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful compile with no fatal findings.
	ExitSuccess = 0
	// ExitGrammarErrors indicates the grammar had fatal findings; no
	// artefacts were emitted.
	ExitGrammarErrors = 1
	// ExitUsage indicates bad flags or arguments.
	ExitUsage = 2
	// ExitIO indicates a filesystem or config error unrelated to the
	// grammar's own content.
	ExitIO = 3
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "print the current version and exit")
	flagGrammar  = pflag.StringP("grammar", "g", "", "path to the .ebnf source file")
	flagKeywords = pflag.StringP("keywords", "k", "", "path to an optional keyword list file")
	flagOutDir   = pflag.StringP("outdir", "o", "", "directory generated artifacts are written to")
	flagTarget   = pflag.StringP("target", "t", "", "antlr|cocor|llgen|all")
	flagNS       = pflag.String("ns", "", "namespace prefix for the token-type/syntax-tree scaffold")
	flagAST      = pflag.Bool("ast", true, "enable the Coco/R AST-building preamble")
	flagLang     = pflag.String("lang", "Cpp", "ANTLR target host language")
	flagMaxLA    = pflag.IntP("max-lookahead", "n", 4, "bounded-k cap for the FIRST_k engine")
	flagRepl     = pflag.Bool("repl", false, "start an interactive session instead of compiling a file")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("ebnfc %s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 0 && args[0] == "serve" {
		runServe(args[1:])
		return
	}
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument %q\nDo -h for help.\n", args[0])
		os.Exit(ExitUsage)
	}

	if *flagRepl {
		os.Exit(runRepl())
	}

	os.Exit(runCompile())
}

// loadConfig assembles a config.Config from an optional .ebnfc.toml file
// beside the grammar (if one exists) with CLI flags overriding any value
// the flag was explicitly given for.
func loadConfig() (config.Config, error) {
	var cfg config.Config

	grammarPath := *flagGrammar
	if grammarPath == "" && !pflag.Lookup("grammar").Changed {
		// no -g given yet; still worth checking cwd for a project file
		grammarPath = "."
	}

	projectFile := filepath.Join(filepath.Dir(grammarPathOrDot(grammarPath)), ".ebnfc.toml")
	hasProjectFile := false
	if _, err := os.Stat(projectFile); err == nil {
		loaded, err := config.Load(projectFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("load %s: %w", projectFile, err)
		}
		cfg = loaded
		hasProjectFile = true
	}

	if pflag.Lookup("grammar").Changed {
		cfg.Grammar = *flagGrammar
	}
	if pflag.Lookup("keywords").Changed {
		cfg.Keywords = *flagKeywords
	}
	if pflag.Lookup("outdir").Changed {
		cfg.OutDir = *flagOutDir
	}
	if pflag.Lookup("target").Changed {
		t, err := config.ParseTarget(*flagTarget)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Target = t
	}
	if pflag.Lookup("ns").Changed {
		cfg.Namespace = *flagNS
	}
	if pflag.Lookup("ast").Changed || !hasProjectFile {
		cfg.BuildAST = *flagAST
	}
	if pflag.Lookup("max-lookahead").Changed {
		cfg.MaxLookahead = *flagMaxLA
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func grammarPathOrDot(p string) string {
	if p == "" || p == "." {
		return "."
	}
	return p
}

func exitf(code int, format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	log.SetFlags(0)
	os.Exit(code)
}
