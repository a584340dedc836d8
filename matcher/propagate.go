package matcher

import (
	"fmt"

	rterrors "github.com/sunholo/rewritetree/internal/errors"
	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/predicate"
	"github.com/sunholo/rewritetree/qualifier"
)

// chainGuard bounds how many onFalse hops a single predicate or success
// installation may take before propagation gives up and reports a cycle.
// Patterns are acyclic by construction (spec.md §1 Non-goals), so a real
// input never approaches this; it exists purely as the defensive guard
// spec.md §6.3 calls for, tripped only by a bug elsewhere in this package.
func chainGuard(orderedLen int) int {
	return 64 + 8*orderedLen
}

// raiseInternal panics with an INT-coded report. Internal invariant
// violations are bugs, never pattern-authoring mistakes, so they unwind to
// the Generate boundary rather than threading an error return through every
// tree-walk helper (mirrors the teacher's parser.ParseFile panic/recover).
func raiseInternal(code, msg string, data map[string]any) {
	panic(rterrors.WrapReport(rterrors.NewInternalReport(code, msg, data)))
}

// propagatePattern drives pattern through the globally ordered predicate
// list, growing the shared tree rooted at root (spec.md §4.6). refs is the
// set of Ordered predicates pattern actually references, as computed by
// predicate.BuildAndOrder.
func propagatePattern(root *Node, ordered []*predicate.Ordered, pattern *ir.Pattern, refs map[*predicate.Ordered]bool) {
	guard := chainGuard(len(ordered))
	slot := root

	for _, pred := range ordered {
		if !refs[pred] {
			continue
		}
		answer, ok := pred.PatternToAnswer[pattern]
		if !ok {
			raiseInternal(rterrors.INT002,
				"predicate referenced by pattern but carries no answer for it",
				map[string]any{"pattern": pattern.Name, "position": pred.Position.String(), "question": pred.Question.String()})
		}

		slot = stepPredicate(slot, pred, answer, guard)
	}

	installSuccess(slot, pattern, guard)
}

// stepPredicate advances slot past whatever subtree already occupies it
// until it finds the (position, question) node for pred, creating a Switch
// there if the slot is empty, and returns the addressable case slot for
// answer (spec.md §4.6).
func stepPredicate(slot *Node, pred *predicate.Ordered, answer *qualifier.Answer, guard int) *Node {
	for hop := 0; ; hop++ {
		if hop > guard {
			raiseInternal(rterrors.INT003,
				"cycle detected following onFalse chain during propagation",
				map[string]any{"position": pred.Position.String(), "question": pred.Question.String()})
		}

		cur := *slot
		if cur == nil {
			sw := &Switch{Position: pred.Position, Question: pred.Question}
			*slot = sw
			cur = sw
		}

		if sw, ok := cur.(*Switch); ok && sw.Position == pred.Position && sw.Question == pred.Question {
			return sw.childSlot(answer)
		}

		next := onFalseSlot(cur)
		if next == nil {
			raiseInternal(rterrors.INT002,
				"reached a terminal node with unconsumed predicates during propagation",
				map[string]any{"node": cur.String(), "position": pred.Position.String(), "question": pred.Question.String()})
		}
		slot = next
	}
}

// installSuccess walks slot's onFalse chain to the first empty link and
// installs a Success node there, so that pattern's match is recorded as
// early as possible without displacing any subtree already anchored deeper
// (spec.md §4.6, seed scenario 2).
func installSuccess(slot *Node, pattern *ir.Pattern, guard int) {
	for hop := 0; ; hop++ {
		if hop > guard {
			raiseInternal(rterrors.INT003,
				fmt.Sprintf("cycle detected installing success node for pattern %s", pattern.Name), nil)
		}

		if *slot == nil {
			*slot = &Success{Pattern: pattern}
			return
		}

		next := onFalseSlot(*slot)
		if next == nil {
			raiseInternal(rterrors.INT002,
				"reached a terminal node with no onFalse slot while installing success",
				map[string]any{"pattern": pattern.Name, "node": (*slot).String()})
		}
		slot = next
	}
}
