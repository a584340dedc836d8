package ir

import "github.com/sunholo/rewritetree/internal/sid"

// Builder constructs the symbolic value tree for a single pattern,
// assigning each value a stable content-addressed ID as it is created
// (spec.md §6.1: "stable identity for each symbolic value"). Callers
// (the YAML loader in cmd/rewritetree, or tests) supply the structural
// path to each value explicitly, mirroring how position.Builder requires
// an explicit parent. To express that two operand slots must hold the
// same value, construct one *InputValue and place it in both slots.
type Builder struct {
	patternIndex int
}

// NewBuilder creates a value builder for the pattern at the given index
// within its module.
func NewBuilder(patternIndex int) *Builder {
	return &Builder{patternIndex: patternIndex}
}

// Operation creates an operation value at path. name/hasName describe
// whether the operation's name is fixed.
func (b *Builder) Operation(path []string, name string, hasName bool) *OperationValue {
	return &OperationValue{
		valueHeader: b.header("operation", path),
		Name:        name,
		HasName:     hasName,
	}
}

// Result creates a result value at path.
func (b *Builder) Result(path []string) *ResultValue {
	return &ResultValue{valueHeader: b.header("result", path)}
}

// Attribute creates an attribute value at path.
func (b *Builder) Attribute(path []string, literal string, hasLiteral bool) *AttributeValue {
	return &AttributeValue{
		valueHeader: b.header("attribute", path),
		Literal:     literal,
		HasLiteral:  hasLiteral,
	}
}

// Type creates a type value at path.
func (b *Builder) Type(path []string, concrete string, hasConcrete bool) *TypeValue {
	return &TypeValue{
		valueHeader: b.header("type", path),
		Concrete:    concrete,
		HasConcrete: hasConcrete,
	}
}

// Input creates a bare operand placeholder value at path.
func (b *Builder) Input(path []string) *InputValue {
	return &InputValue{valueHeader: b.header("input", path)}
}

// Pattern assembles the finished pattern, assigning it a stable ID derived
// from its index and name.
func (b *Builder) Pattern(name string, root *OperationValue, constraints []*ConstraintApplication) *Pattern {
	return &Pattern{
		Name:        name,
		Root:        root,
		Constraints: constraints,
		id:          sid.NewPatternSID(b.patternIndex, name),
	}
}

func (b *Builder) header(kind string, path []string) valueHeader {
	return valueHeader{id: sid.NewValueSID(b.patternIndex, kind, path)}
}
