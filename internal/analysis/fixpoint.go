package analysis

import "github.com/grammarkit/ebnfstudio/internal/ir"

// ComputeNullability iterates the nullability fixpoint over every
// definition until a full pass produces no change. The per-node rules live on
// ir.Node.IsNullable; this just drives the worklist over Definition.Nullable,
// since a Nonterminal node's nullability depends on its resolved
// definition's flag, which in turn may depend on this definition's own
// flag through recursion.
func ComputeNullability(g *ir.Grammar) {
	for {
		changed := false
		for _, d := range g.Order {
			next := d.Root != nil && d.Root.IsNullable()
			if next != d.Nullable {
				d.Nullable = next
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// ComputeRepeatability is the analogous fixpoint for repeatability.
func ComputeRepeatability(g *ir.Grammar) {
	for {
		changed := false
		for _, d := range g.Order {
			next := d.Root != nil && d.Root.IsRepeatable()
			if next != d.Repeatable {
				d.Repeatable = next
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
