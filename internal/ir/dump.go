package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/google/uuid"
)

// Dump pretty-prints the full grammar tree with one indented line per node.
// It is consumed by the --repl mode's :dump command.
func (g *Grammar) Dump(w io.Writer) {
	for _, d := range g.Order {
		header := fmt.Sprintf("%s %s", d.Name, annotationSuffix(d.Op))
		fmt.Fprintln(w, strings.TrimRight(header, " "))
		dumpNode(w, d.Root, 1)
	}
}

func dumpNode(w io.Writer, n *Node, level int) {
	if n == nil {
		line := rosed.Edit("(empty)").Indent(level).String()
		fmt.Fprintln(w, line)
		return
	}

	label := fmt.Sprintf("%s %s %s", n.Kind, quantLabel(n.Quant), describeToken(n))
	line := rosed.Edit(strings.TrimRight(label, " ")).Indent(level).String()
	fmt.Fprintln(w, line)

	for _, c := range n.Children {
		dumpNode(w, c, level+1)
	}
}

func describeToken(n *Node) string {
	switch n.Kind {
	case Terminal, Nonterminal, PredicateNode:
		return n.Token.Value
	default:
		// anonymous grouping node: give it a short synthetic handle so it
		// can be distinguished in a dump without implying it has a stable
		// identity outside of this debug rendering.
		return "#" + uuid.New().String()[:8]
	}
}

func quantLabel(q Quantifier) string {
	if q == One {
		return ""
	}
	return "[" + q.String() + "]"
}

func annotationSuffix(op interface{ String() string }) string {
	s := op.String()
	if s == "Normal" {
		return ""
	}
	return "(" + s + ")"
}
