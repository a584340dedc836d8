package main

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/rewritetree/ir"
)

// moduleSpec is the YAML shape of a pattern module file consumed by
// `rewritetree build`/`dump-predicates`. It mirrors the hand-built test
// fixtures in predicate/extract_test.go and matcher/generate_test.go
// (operation/operand/result/attribute/type, `bind`+`ref` standing in for
// the tests' shared Go pointers) rather than any format borrowed from the
// teacher, since the teacher has no declarative-pattern file format of its
// own to imitate.
type moduleSpec struct {
	Patterns []*patternSpec `yaml:"patterns"`
}

type patternSpec struct {
	Name        string            `yaml:"name"`
	Root        *valueSpec        `yaml:"root"`
	Constraints []*constraintSpec `yaml:"constraints"`
}

type constraintSpec struct {
	Name   string   `yaml:"name"`
	Args   []string `yaml:"args"`
	Params any      `yaml:"params,omitempty"`
}

// valueSpec is the one recursive YAML node type for every symbolic value
// kind (operation, operand, result, attribute, type). Which fields apply
// depends on where the node sits in the tree: `op`/`operands`/`results`/
// `attrs` only make sense at an operand or root position; `literal` only
// at an attribute; `concrete` only at a type. `bind` names this value so a
// later `ref` (or a constraint's `args` entry) can point back at the exact
// same value, which is how a pattern module expresses the EqualTo and
// constraint-argument sharing that the Go test fixtures express with a
// shared pointer.
type valueSpec struct {
	Bind string `yaml:"bind,omitempty"`
	Ref  string `yaml:"ref,omitempty"`

	Op       string                `yaml:"op,omitempty"`
	AnyOp    bool                  `yaml:"any_op,omitempty"`
	Operands []*valueSpec          `yaml:"operands,omitempty"`
	Results  []*valueSpec          `yaml:"results,omitempty"`
	Attrs    map[string]*valueSpec `yaml:"attrs,omitempty"`

	Type *valueSpec `yaml:"type,omitempty"`

	Concrete string `yaml:"concrete,omitempty"`

	Literal *string `yaml:"literal,omitempty"`
}

// loader tracks every bound value by name while building one pattern's
// value tree, so that `ref` and constraint `args` can recover the exact
// ir.Value pointer a `bind` introduced.
type loader struct {
	builder  *ir.Builder
	bindings map[string]ir.Value
}

func (l *loader) bind(name string, v ir.Value) {
	if name == "" {
		return
	}
	l.bindings[name] = v
}

func (l *loader) lookup(name string) (ir.Value, error) {
	v, ok := l.bindings[name]
	if !ok {
		return nil, fmt.Errorf("ref %q does not refer to any value bound earlier in this pattern", name)
	}
	return v, nil
}

func extend(path []string, seg string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

// loadModule parses a pattern module file into an *ir.Module, each pattern
// built through its own ir.Builder exactly as the hand-written test
// fixtures build one (ir.NewBuilder(idx), then Operation/Input/Attribute/
// Type/Result calls).
func loadModule(data []byte) (*ir.Module, error) {
	var spec moduleSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing pattern module: %w", err)
	}

	module := &ir.Module{}
	for idx, p := range spec.Patterns {
		if p.Name == "" {
			return nil, fmt.Errorf("pattern at index %d: missing name", idx)
		}
		if p.Root == nil {
			return nil, fmt.Errorf("pattern %q: missing root", p.Name)
		}

		l := &loader{builder: ir.NewBuilder(idx), bindings: map[string]ir.Value{}}
		root, err := l.loadOperation([]string{"root"}, p.Root)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		l.bind("root", root)

		constraints, err := l.loadConstraints(p.Name, p.Constraints)
		if err != nil {
			return nil, err
		}

		module.Patterns = append(module.Patterns, l.builder.Pattern(p.Name, root, constraints))
	}
	return module, nil
}

func (l *loader) loadConstraints(patternName string, specs []*constraintSpec) ([]*ir.ConstraintApplication, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	constraints := make([]*ir.ConstraintApplication, 0, len(specs))
	for _, c := range specs {
		if c.Name == "" {
			return nil, fmt.Errorf("pattern %q: constraint missing name", patternName)
		}
		args := make([]ir.Value, 0, len(c.Args))
		for _, name := range c.Args {
			val, err := l.lookup(name)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: constraint %q: %w", patternName, c.Name, err)
			}
			args = append(args, val)
		}
		constraints = append(constraints, &ir.ConstraintApplication{Name: c.Name, Args: args, Params: c.Params})
	}
	return constraints, nil
}

// loadOperation builds an *ir.OperationValue, recursing into its attrs
// (sorted by name, for a reproducible path/SID assignment independent of
// Go map iteration order), operands, and results.
func (l *loader) loadOperation(path []string, v *valueSpec) (*ir.OperationValue, error) {
	if v.Ref != "" {
		val, err := l.lookup(v.Ref)
		if err != nil {
			return nil, err
		}
		op, ok := val.(*ir.OperationValue)
		if !ok {
			return nil, fmt.Errorf("ref %q does not refer to an operation", v.Ref)
		}
		return op, nil
	}

	// HasName is true whenever `op:` was given at all; `any_op: true`
	// with no `op:` leaves the name unconstrained.
	op := l.builder.Operation(path, v.Op, v.Op != "")
	l.bind(v.Bind, op)

	if len(v.Attrs) > 0 {
		names := make([]string, 0, len(v.Attrs))
		for name := range v.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			av, err := l.loadAttribute(extend(path, "attribute("+name+")"), v.Attrs[name])
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", name, err)
			}
			op.Attributes = append(op.Attributes, ir.AttributeField{Name: name, Value: av})
		}
	}

	for i, o := range v.Operands {
		val, err := l.loadOperand(extend(path, fmt.Sprintf("operand(%d)", i)), o)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i, err)
		}
		op.Operands = append(op.Operands, val)
	}

	for i, r := range v.Results {
		rv, err := l.loadResult(extend(path, fmt.Sprintf("result(%d)", i)), r)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		op.Results = append(op.Results, rv)
	}

	return op, nil
}

// loadOperand builds the value for an operand slot: either a nested
// operation (pdl::OperationOp, `op`/`any_op` set) or a bare input
// placeholder (pdl::InputOp, the default).
func (l *loader) loadOperand(path []string, v *valueSpec) (ir.Value, error) {
	if v.Ref != "" {
		return l.lookup(v.Ref)
	}
	if v.Op != "" || v.AnyOp {
		return l.loadOperation(path, v)
	}

	iv := l.builder.Input(path)
	l.bind(v.Bind, iv)
	if v.Type != nil {
		tv, err := l.loadType(extend(path, "type"), v.Type)
		if err != nil {
			return nil, err
		}
		iv.Type = tv
	}
	return iv, nil
}

func (l *loader) loadResult(path []string, v *valueSpec) (*ir.ResultValue, error) {
	rv := l.builder.Result(path)
	if v == nil {
		return rv, nil
	}
	l.bind(v.Bind, rv)
	if v.Type != nil {
		tv, err := l.loadType(extend(path, "type"), v.Type)
		if err != nil {
			return nil, err
		}
		rv.Type = tv
	}
	return rv, nil
}

func (l *loader) loadAttribute(path []string, v *valueSpec) (*ir.AttributeValue, error) {
	if v.Ref != "" {
		val, err := l.lookup(v.Ref)
		if err != nil {
			return nil, err
		}
		av, ok := val.(*ir.AttributeValue)
		if !ok {
			return nil, fmt.Errorf("ref %q does not refer to an attribute", v.Ref)
		}
		return av, nil
	}

	literal := ""
	hasLiteral := v.Literal != nil
	if hasLiteral {
		literal = *v.Literal
	}
	av := l.builder.Attribute(path, literal, hasLiteral)
	l.bind(v.Bind, av)

	if v.Type != nil {
		tv, err := l.loadType(extend(path, "type"), v.Type)
		if err != nil {
			return nil, err
		}
		av.Type = tv
	}
	return av, nil
}

func (l *loader) loadType(path []string, v *valueSpec) (*ir.TypeValue, error) {
	if v.Ref != "" {
		val, err := l.lookup(v.Ref)
		if err != nil {
			return nil, err
		}
		tv, ok := val.(*ir.TypeValue)
		if !ok {
			return nil, fmt.Errorf("ref %q does not refer to a type", v.Ref)
		}
		return tv, nil
	}

	tv := l.builder.Type(path, v.Concrete, v.Concrete != "")
	l.bind(v.Bind, tv)
	return tv, nil
}
