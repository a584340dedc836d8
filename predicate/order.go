package predicate

import (
	"sort"

	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/position"
	"github.com/sunholo/rewritetree/qualifier"
)

// Ordered is the deduplicated, cost-scored cross-pattern view of a
// predicate (spec.md §3 "OrderedPredicate", §4.4, §4.5). Two Ordered
// values are the same decision node iff their Position and Question are
// identical (interned pointers), regardless of which Answer any one
// pattern expects.
type Ordered struct {
	Position *position.Position
	Question *qualifier.Question

	// Primary is the number of patterns that reference this predicate.
	Primary int
	// Secondary is the sum, over referencing patterns, of that pattern's
	// total primary-squared score (spec.md §4.5).
	Secondary int

	// PatternToAnswer maps a referencing pattern to the answer it expects
	// at this (Position, Question).
	PatternToAnswer map[*ir.Pattern]*qualifier.Answer
}

// patternPredicates is the result of extraction plus constraint collection
// for one pattern: the flat predicate list that must all hold.
type patternPredicates struct {
	pattern *ir.Pattern
	preds   []Positional
}

// BuildAndOrder runs predicate extraction and constraint collection for
// every pattern in module, deduplicates the resulting predicates across the
// whole pattern set, scores them with the two-tier cost model, and returns
// them in the single global total order of spec.md §4.5 (lower sorted
// first). It also returns, per pattern, the set of Ordered predicates that
// pattern references, for use by propagation (spec.md §4.6).
func BuildAndOrder(module *ir.Module, pb *position.Builder, qb *qualifier.Builder) ([]*Ordered, map[*ir.Pattern]map[*Ordered]bool, error) {
	perPattern := make([]patternPredicates, 0, len(module.Patterns))

	for _, pat := range module.Patterns {
		treePreds, bindings, err := ExtractAndBind(pat, pb, qb)
		if err != nil {
			return nil, nil, err
		}
		constraintPreds, err := CollectConstraints(pat, bindings, qb)
		if err != nil {
			return nil, nil, err
		}
		perPattern = append(perPattern, patternPredicates{
			pattern: pat,
			preds:   append(treePreds, constraintPreds...),
		})
	}

	// Dedup across all patterns (spec.md §4.4).
	uniqued := make(map[dedupKey]*Ordered)
	var orderedInsertion []*Ordered

	patternPredSet := make(map[*ir.Pattern]map[*Ordered]bool, len(perPattern))

	for _, pp := range perPattern {
		set := make(map[*Ordered]bool)
		patternPredSet[pp.pattern] = set

		for _, p := range pp.preds {
			k := p.key()
			o, exists := uniqued[k]
			if !exists {
				o = &Ordered{
					Position:        p.Position,
					Question:        p.Question,
					PatternToAnswer: make(map[*ir.Pattern]*qualifier.Answer),
				}
				uniqued[k] = o
				orderedInsertion = append(orderedInsertion, o)
			}
			if _, already := o.PatternToAnswer[pp.pattern]; !already {
				o.Primary++
			}
			o.PatternToAnswer[pp.pattern] = p.Answer
			set[o] = true
		}
	}

	// Cost model (spec.md §4.5): for each pattern, T_p = sum of primary^2
	// over its predicates; add T_p to the secondary sum of each of those
	// predicates.
	for _, set := range patternPredSet {
		total := 0
		for o := range set {
			total += o.Primary * o.Primary
		}
		for o := range set {
			o.Secondary += total
		}
	}

	ordered := make([]*Ordered, len(orderedInsertion))
	copy(ordered, orderedInsertion)

	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})

	return ordered, patternPredSet, nil
}

// less implements the total order of spec.md §4.5: lower sorts first.
// Compares (primary desc, secondary desc, depth asc, position kind asc,
// question kind asc).
func less(a, b *Ordered) bool {
	if a.Primary != b.Primary {
		return a.Primary > b.Primary
	}
	if a.Secondary != b.Secondary {
		return a.Secondary > b.Secondary
	}
	if da, db := a.Position.Depth(), b.Position.Depth(); da != db {
		return da < db
	}
	if ra, rb := a.Position.Kind().Rank(), b.Position.Kind().Rank(); ra != rb {
		return ra < rb
	}
	return a.Question.Kind().Rank() < b.Question.Kind().Rank()
}
