package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grammarkit/ebnfstudio"
	"github.com/grammarkit/ebnfstudio/internal/input"
	"github.com/grammarkit/ebnfstudio/internal/keywords"
)

// runRepl reads one grammar snippet at a time from stdin, re-parses and
// re-analyzes the whole accumulated source after each one, and reports the
// nullable/repeatable/left-recursive flags for whichever definitions the
// snippet just added. Re-running the full pipeline on every line keeps the
// REPL's behavior identical to a single compile of everything typed so far,
// at the cost of doing more work than an incremental analyzer would.
func runRepl() int {
	kw := keywords.Empty
	if *flagKeywords != "" {
		kf, err := os.Open(*flagKeywords)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open keywords: %v\n", err)
			return ExitIO
		}
		loaded, err := keywords.Load(kf)
		kf.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "read keywords: %v\n", err)
			return ExitIO
		}
		kw = loaded
	}

	rl, err := input.NewInteractiveReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start console: %v\n", err)
		return ExitIO
	}
	defer rl.Close()
	rl.AllowBlank(false)

	var buf strings.Builder
	known := make(map[string]bool)

	for {
		line, err := rl.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return ExitSuccess
			}
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
			return ExitIO
		}

		if strings.TrimSpace(line) == ":dump" {
			sess, err := ebnfstudio.Load(strings.NewReader(buf.String()), kw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				continue
			}
			sess.Grammar.Dump(os.Stdout)
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		sess, err := ebnfstudio.Load(strings.NewReader(buf.String()), kw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}

		sum := sess.Summarize()
		for _, e := range sum.Findings {
			fmt.Println(e.String())
		}
		for _, d := range sum.Definitions {
			if known[d.Name] {
				continue
			}
			known[d.Name] = true
			fmt.Printf("%s: nullable=%v repeatable=%v left-recursive=%v/%v refs=%d\n",
				d.Name, d.Nullable, d.Repeatable, d.DirectLeftRecursive, d.IndirectLeftRecursive, d.BackRefCount)
		}
	}
}
