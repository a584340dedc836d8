package predicate

import (
	"fmt"

	rterrors "github.com/sunholo/rewritetree/internal/errors"
	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/position"
	"github.com/sunholo/rewritetree/qualifier"
)

// ExtractPattern walks pattern's declarative root and returns the flat list
// of Positional predicates that, conjunctively, characterize a successful
// match (spec.md §4.2). pb and qb must be the same builders used for every
// pattern in the module, so that predicates shared across patterns dedup by
// pointer identity.
func ExtractPattern(pattern *ir.Pattern, pb *position.Builder, qb *qualifier.Builder) ([]Positional, error) {
	predList, _, err := ExtractAndBind(pattern, pb, qb)
	return predList, err
}

// isInputLike reports whether a value's form participates in EqualTo
// detection when revisited (spec.md §4.2: "an input-like form: attribute,
// value input, type"). Operation and Result forms are excluded, matching
// the original's isa<pdl::AttributeOp, pdl::InputOp, pdl::TypeOp> check.
func isInputLike(f ir.Form) bool {
	switch f {
	case ir.FormAttribute, ir.FormInput, ir.FormType:
		return true
	default:
		return false
	}
}

func walk(
	predList *[]Positional,
	val ir.Value,
	pb *position.Builder,
	qb *qualifier.Builder,
	bindings map[ir.Value]*position.Position,
	pos *position.Position,
) error {
	if existing, bound := bindings[val]; bound {
		if isInputLike(val.Form()) {
			deeper, shallower := orderByDepth(pos, existing)
			*predList = append(*predList, Positional{
				Position: deeper,
				Question: qb.GetEqualTo(shallower),
				Answer:   qb.GetTrue(),
			})
			return nil
		}
		// Revisited but not an input-like form: fall through and
		// re-expand structurally, without overwriting the earlier
		// binding (mirrors DenseMap::try_emplace leaving the first
		// entry in place).
	} else {
		bindings[val] = pos
	}

	switch pos.Kind() {
	case position.Root, position.Parent:
		return walkOperation(predList, val, pb, qb, bindings, pos)
	case position.Operand:
		return walkOperand(predList, val, pb, qb, bindings, pos)
	case position.Result:
		return walkResult(predList, val, pb, qb, bindings, pos)
	case position.Attribute:
		return walkAttribute(predList, val, pb, qb, bindings, pos)
	case position.Type:
		return walkType(predList, val, qb, pos)
	default:
		return rterrors.WrapReport(rterrors.NewInternalReport(
			rterrors.INT001, fmt.Sprintf("unknown position kind %s", pos.Kind()), nil))
	}
}

// orderByDepth returns (deeper, shallower) for a and b, breaking ties at
// equal depth by preferring b (the earlier-bound position already present
// in the binding map) as the referent, per the Open Question decision
// recorded in DESIGN.md.
func orderByDepth(a, b *position.Position) (deeper, shallower *position.Position) {
	if a.Depth() > b.Depth() {
		return a, b
	}
	if b.Depth() > a.Depth() {
		return b, a
	}
	return a, b
}

func walkOperation(
	predList *[]Positional,
	val ir.Value,
	pb *position.Builder,
	qb *qualifier.Builder,
	bindings map[ir.Value]*position.Position,
	pos *position.Position,
) error {
	op, ok := val.(*ir.OperationValue)
	if !ok {
		return illegalPositionErr(pos, val)
	}

	if !pos.IsRoot() {
		emit(predList, pos, qb.GetIsNotNull(), qb.GetTrue())
	}
	if op.HasName {
		emit(predList, pos, qb.GetOperationName(), qb.GetNameAnswer(op.Name))
	}
	emit(predList, pos, qb.GetOperandCount(), qb.GetCountAnswer(len(op.Operands)))
	emit(predList, pos, qb.GetResultCount(), qb.GetCountAnswer(len(op.Results)))

	for _, attr := range op.Attributes {
		attrPos := pb.GetAttribute(pos, attr.Name)
		if err := walk(predList, attr.Value, pb, qb, bindings, attrPos); err != nil {
			return err
		}
	}
	for i, operand := range op.Operands {
		operandPos := pb.GetOperand(pos, i)
		if err := walk(predList, operand, pb, qb, bindings, operandPos); err != nil {
			return err
		}
	}
	for i, result := range op.Results {
		resultPos := pb.GetResult(pos, i)
		if err := walk(predList, result, pb, qb, bindings, resultPos); err != nil {
			return err
		}
	}
	return nil
}

func walkOperand(
	predList *[]Positional,
	val ir.Value,
	pb *position.Builder,
	qb *qualifier.Builder,
	bindings map[ir.Value]*position.Position,
	pos *position.Position,
) error {
	emit(predList, pos, qb.GetIsNotNull(), qb.GetTrue())

	switch v := val.(type) {
	case *ir.InputValue:
		if v.Type != nil {
			typePos := pb.GetType(pos)
			return walk(predList, v.Type, pb, qb, bindings, typePos)
		}
		return nil
	case *ir.OperationValue:
		parentPos := pb.GetParent(pos)
		return walk(predList, v, pb, qb, bindings, parentPos)
	default:
		return illegalPositionErr(pos, val)
	}
}

func walkResult(
	predList *[]Positional,
	val ir.Value,
	pb *position.Builder,
	qb *qualifier.Builder,
	bindings map[ir.Value]*position.Position,
	pos *position.Position,
) error {
	rv, ok := val.(*ir.ResultValue)
	if !ok {
		return illegalPositionErr(pos, val)
	}
	emit(predList, pos, qb.GetIsNotNull(), qb.GetTrue())
	if rv.Type != nil {
		typePos := pb.GetType(pos)
		return walk(predList, rv.Type, pb, qb, bindings, typePos)
	}
	return nil
}

func walkAttribute(
	predList *[]Positional,
	val ir.Value,
	pb *position.Builder,
	qb *qualifier.Builder,
	bindings map[ir.Value]*position.Position,
	pos *position.Position,
) error {
	av, ok := val.(*ir.AttributeValue)
	if !ok {
		return illegalPositionErr(pos, val)
	}
	emit(predList, pos, qb.GetIsNotNull(), qb.GetTrue())
	if av.Type != nil {
		typePos := pb.GetType(pos)
		return walk(predList, av.Type, pb, qb, bindings, typePos)
	}
	if av.HasLiteral {
		emit(predList, pos, qb.GetAttributeConstraint(), qb.GetAttributeAnswer(av.Literal))
	}
	return nil
}

func walkType(predList *[]Positional, val ir.Value, qb *qualifier.Builder, pos *position.Position) error {
	tv, ok := val.(*ir.TypeValue)
	if !ok {
		return illegalPositionErr(pos, val)
	}
	if tv.HasConcrete {
		emit(predList, pos, qb.GetTypeConstraint(), qb.GetTypeAnswer(tv.Concrete))
	}
	return nil
}

func emit(predList *[]Positional, pos *position.Position, q *qualifier.Question, a *qualifier.Answer) {
	*predList = append(*predList, Positional{Position: pos, Question: q, Answer: a})
}

func illegalPositionErr(pos *position.Position, val ir.Value) error {
	return rterrors.WrapReport(rterrors.NewPatternAuthoringReport(
		rterrors.PAT002,
		fmt.Sprintf("predicate emitted at illegal position kind: %s position bound to a %s value", pos.Kind(), val.Form()),
		map[string]any{"position": pos.String(), "form": val.Form().String()}))
}
