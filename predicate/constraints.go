package predicate

import (
	rterrors "github.com/sunholo/rewritetree/internal/errors"
	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/position"
	"github.com/sunholo/rewritetree/qualifier"
)

// Bindings maps a pattern's symbolic values to the position first bound to
// them by ExtractPattern, for use by CollectConstraints. ExtractPattern
// does not return this map directly (spec.md §4.2 only commits to the flat
// predicate list as output); ExtractAndBind below returns both.
type Bindings map[ir.Value]*position.Position

// ExtractAndBind is ExtractPattern plus the binding map it built, so that
// CollectConstraints can resolve constraint arguments to positions without
// re-walking the pattern.
func ExtractAndBind(pattern *ir.Pattern, pb *position.Builder, qb *qualifier.Builder) ([]Positional, Bindings, error) {
	if pattern.Root == nil {
		return nil, nil, rterrors.WrapReport(rterrors.NewPatternAuthoringReport(
			rterrors.PAT003, "pattern root is not an operation value",
			map[string]any{"pattern": string(pattern.ID())}))
	}

	var predList []Positional
	bindings := make(map[ir.Value]*position.Position)
	root := pb.GetRoot()
	if err := walk(&predList, pattern.Root, pb, qb, bindings, root); err != nil {
		return nil, nil, err
	}
	return predList, Bindings(bindings), nil
}

// CollectConstraints appends one Positional predicate per user-defined
// constraint application in pattern, anchored at the deepest position among
// its arguments (ties broken by first occurrence in the argument list),
// per spec.md §4.3. bindings must be the map produced by ExtractAndBind for
// the same pattern.
func CollectConstraints(pattern *ir.Pattern, bindings Bindings, qb *qualifier.Builder) ([]Positional, error) {
	var out []Positional

	for _, c := range pattern.Constraints {
		argPositions := make([]*position.Position, len(c.Args))
		for i, arg := range c.Args {
			pos, ok := bindings[arg]
			if !ok {
				return nil, rterrors.WrapReport(rterrors.NewPatternAuthoringReport(
					rterrors.PAT001,
					"constraint argument never bound by the structural walk",
					map[string]any{"pattern": string(pattern.ID()), "constraint": c.Name}))
			}
			argPositions[i] = pos
		}

		anchor := deepestFirst(argPositions)
		q := qb.GetConstraint(c.Name, argPositions, c.Params)
		out = append(out, Positional{Position: anchor, Question: q, Answer: qb.GetTrue()})
	}

	return out, nil
}

// deepestFirst returns the deepest position in positions, breaking ties by
// first occurrence (mirrors std::max_element under comparePosDepth, which
// returns the first of equally-maximal elements).
func deepestFirst(positions []*position.Position) *position.Position {
	best := positions[0]
	for _, p := range positions[1:] {
		if p.Depth() > best.Depth() {
			best = p
		}
	}
	return best
}
