// Package ir is the minimal concrete input contract consumed by the
// matcher generator (spec.md §6.1). The IR data model proper — operations,
// values, attributes, types of a real embedding compiler — is explicitly
// out of scope (spec.md §1); this package only shapes the handful of
// symbolic-value variants a pattern's declarative body can be built from.
//
// Structurally grounded on the teacher's internal/core/core.go: a tagged
// interface (Value) with a private marker method, variants embedding a
// shared header struct, exactly as CoreExpr/CoreNode embed coreExpr()/
// CoreNode there. Semantically grounded on pdl::AttributeOp/InputOp/
// OperationOp/TypeOp in original_source/mlir/.../PredicateTree.cpp: an
// operand slot holds a Value directly (no extra wrapper), whose concrete
// variant is either *InputValue (a bare, optionally typed placeholder) or
// *OperationValue (an inline nested pattern — PDL's implicit single-result
// operand shorthand), exactly mirroring the original's
// getDefiningOp<pdl::InputOp>() / getDefiningOp<pdl::OperationOp>() split.
package ir

import "github.com/sunholo/rewritetree/internal/sid"

// Form discriminates the variants of Value.
type Form int

const (
	FormOperation Form = iota
	FormResult
	FormAttribute
	FormType
	FormInput
)

func (f Form) String() string {
	switch f {
	case FormOperation:
		return "operation"
	case FormResult:
		return "result"
	case FormAttribute:
		return "attribute"
	case FormType:
		return "type"
	case FormInput:
		return "input"
	default:
		return "invalid-form"
	}
}

// Value is a symbolic value appearing in a pattern's declarative body.
// Concrete variants are OperationValue, ResultValue, AttributeValue,
// TypeValue, and InputValue.
type Value interface {
	// ID returns this value's stable content-addressed identity.
	ID() sid.SID
	// Form reports which variant this value is.
	Form() Form

	valueNode()
}

// valueHeader is embedded by every Value variant, mirroring the teacher's
// CoreNode embedding.
type valueHeader struct {
	id sid.SID
}

// ID returns the value's stable identity.
func (h valueHeader) ID() sid.SID { return h.id }

// OperationValue is the symbolic description of an operation: an optional
// fixed name, its attribute name/value pairs, and its operand and result
// lists. An operand slot holds a Value whose concrete type is *InputValue
// or *OperationValue.
type OperationValue struct {
	valueHeader
	Name       string
	HasName    bool
	Attributes []AttributeField
	Operands   []Value
	Results    []*ResultValue
}

func (v *OperationValue) Form() Form { return FormOperation }
func (v *OperationValue) valueNode() {}

// AttributeField pairs an attribute name with its symbolic value.
type AttributeField struct {
	Name  string
	Value *AttributeValue
}

// ResultValue is the symbolic description of one of an operation's
// results, with an optional declared type.
type ResultValue struct {
	valueHeader
	Type *TypeValue
}

func (v *ResultValue) Form() Form { return FormResult }
func (v *ResultValue) valueNode() {}

// AttributeValue is the symbolic description of an attribute: an optional
// type sub-term and/or a concrete literal constraint.
type AttributeValue struct {
	valueHeader
	Type       *TypeValue
	Literal    string
	HasLiteral bool
}

func (v *AttributeValue) Form() Form { return FormAttribute }
func (v *AttributeValue) valueNode() {}

// TypeValue is the symbolic description of a type: either left open or
// fixed to a concrete type.
type TypeValue struct {
	valueHeader
	Concrete    string
	HasConcrete bool
}

func (v *TypeValue) Form() Form { return FormType }
func (v *TypeValue) valueNode() {}

// InputValue is a bare operand placeholder: an opaque value with an
// optional declared type, not produced by any nested operation symbol.
// Reusing the same *InputValue across two operand slots is how a pattern
// expresses that both slots must hold the same value (spec.md §4.2,
// EqualTo emission).
type InputValue struct {
	valueHeader
	Type *TypeValue
}

func (v *InputValue) Form() Form { return FormInput }
func (v *InputValue) valueNode() {}

// ConstraintApplication is a user-defined constraint applied to an ordered
// list of symbolic argument values, with an opaque parameter blob
// (spec.md §6.1).
type ConstraintApplication struct {
	Name   string
	Args   []Value
	Params any
}

// Pattern is one declarative rewrite pattern: a structural match rooted at
// Root, plus the constraint applications that must additionally hold.
type Pattern struct {
	Name        string
	Root        *OperationValue
	Constraints []*ConstraintApplication

	id sid.SID
}

// ID returns the pattern's stable identity, used as the Success node's
// label and as the key in OrderedPredicate.PatternToAnswer.
func (p *Pattern) ID() sid.SID { return p.id }

// Module is an ordered sequence of pattern descriptions (spec.md §6.1).
type Module struct {
	Patterns []*Pattern
}
