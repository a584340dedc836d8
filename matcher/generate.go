package matcher

import (
	rterrors "github.com/sunholo/rewritetree/internal/errors"
	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/position"
	"github.com/sunholo/rewritetree/predicate"
	"github.com/sunholo/rewritetree/qualifier"
)

// Generate lowers module's patterns into a single shared matcher tree
// (spec.md §2, the end-to-end pipeline). Builders returned alongside the
// tree must outlive it: the tree's nodes hold the interned *position.Position
// and *qualifier.Question handles those builders produced (spec.md §6.2).
func Generate(module *ir.Module) (root Node, pb *position.Builder, qb *qualifier.Builder, err error) {
	pb = position.NewBuilder()
	qb = qualifier.NewBuilder()

	defer func() {
		if r := recover(); r != nil {
			root = nil
			if wrapped, ok := r.(error); ok {
				err = wrapped
				return
			}
			err = rterrors.WrapReport(rterrors.NewGeneric("generate", panicString(formatPanic(r))))
		}
	}()

	ordered, patternPredSet, buildErr := predicate.BuildAndOrder(module, pb, qb)
	if buildErr != nil {
		return nil, pb, qb, buildErr
	}

	var treeRoot Node
	for _, pat := range module.Patterns {
		propagatePattern(&treeRoot, ordered, pat, patternPredSet[pat])
	}

	foldSwitchToBool(&treeRoot)
	insertExitNode(&treeRoot)
	validateSuccessPatterns(treeRoot, module)

	return treeRoot, pb, qb, nil
}

// validateSuccessPatterns walks the finished tree and panics with INT004 if
// any Success node references a pattern absent from module — the output
// contract's guarantee (iii) in spec.md §6.2.
func validateSuccessPatterns(root Node, module *ir.Module) {
	known := make(map[*ir.Pattern]bool, len(module.Patterns))
	for _, p := range module.Patterns {
		known[p] = true
	}
	walkSuccess(root, known)
}

func walkSuccess(n Node, known map[*ir.Pattern]bool) {
	switch v := n.(type) {
	case *Switch:
		for _, a := range v.CaseOrder {
			walkSuccess(*v.Cases[a], known)
		}
		walkSuccess(v.OnFalse, known)
	case *Bool:
		walkSuccess(v.OnTrue, known)
		walkSuccess(v.OnFalse, known)
	case *Success:
		if !known[v.Pattern] {
			raiseInternal(rterrors.INT004,
				"success node references a pattern not supplied to the generator",
				map[string]any{"pattern": v.Pattern.Name})
		}
		walkSuccess(v.OnFalse, known)
	case *Exit, nil:
		// terminal.
	}
}

type panicString string

func (p panicString) Error() string { return string(p) }

func formatPanic(r any) string {
	if s, ok := r.(string); ok {
		return s
	}
	return "unrecoverable internal panic"
}
