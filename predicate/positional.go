// Package predicate implements the predicate-extraction walk, the
// constraint collector, and the cost-scored global ordering of spec.md
// §4.2–§4.5. Grounded directly on getTreePredicates, comparePosDepth,
// collectConstraintPredicates, OrderedPredicate, and the stable_sort
// comparator in original_source/mlir/.../PredicateTree.cpp.
package predicate

import (
	"github.com/sunholo/rewritetree/position"
	"github.com/sunholo/rewritetree/qualifier"
)

// Positional is the (position, question, answer) triple of spec.md §3: a
// single predicate that must hold for a pattern to match.
type Positional struct {
	Position *position.Position
	Question *qualifier.Question
	Answer   *qualifier.Answer
}

// key returns the (position, question) dedup key shared by every
// Positional predicate that this one collapses with across the pattern
// set (spec.md §4.4).
func (p Positional) key() dedupKey {
	return dedupKey{position: p.Position, question: p.Question}
}

type dedupKey struct {
	position *position.Position
	question *qualifier.Question
}
