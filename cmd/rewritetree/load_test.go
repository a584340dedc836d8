package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/matcher"
)

func TestLoadModuleSinglePattern(t *testing.T) {
	yamlDoc := `
patterns:
  - name: fold-add-zero
    root:
      op: add
      operands:
        - bind: lhs
          type:
            concrete: i32
        - op: const
          attrs:
            value:
              literal: "0"
      results:
        - type:
            concrete: i32
`
	module, err := loadModule([]byte(yamlDoc))
	require.NoError(t, err)
	require.Len(t, module.Patterns, 1)

	p := module.Patterns[0]
	assert.Equal(t, "fold-add-zero", p.Name)
	assert.Equal(t, "add", p.Root.Name)
	require.Len(t, p.Root.Operands, 2)

	lhs, ok := p.Root.Operands[0].(*ir.InputValue)
	require.True(t, ok, "first operand should be a bare input")
	require.NotNil(t, lhs.Type)
	assert.Equal(t, "i32", lhs.Type.Concrete)

	constOp, ok := p.Root.Operands[1].(*ir.OperationValue)
	require.True(t, ok, "second operand should be a nested operation")
	assert.Equal(t, "const", constOp.Name)
	require.Len(t, constOp.Attributes, 1)
	assert.Equal(t, "value", constOp.Attributes[0].Name)
	assert.True(t, constOp.Attributes[0].Value.HasLiteral)
	assert.Equal(t, "0", constOp.Attributes[0].Value.Literal)

	require.Len(t, p.Root.Results, 1)
	require.NotNil(t, p.Root.Results[0].Type)
	assert.Equal(t, "i32", p.Root.Results[0].Type.Concrete)
}

func TestLoadModuleSharedRefProducesEqualTo(t *testing.T) {
	yamlDoc := `
patterns:
  - name: self-sub
    root:
      op: sub
      operands:
        - bind: x
        - ref: x
`
	module, err := loadModule([]byte(yamlDoc))
	require.NoError(t, err)

	p := module.Patterns[0]
	require.Len(t, p.Root.Operands, 2)
	assert.Same(t, p.Root.Operands[0], p.Root.Operands[1], "ref should recover the exact bound pointer")

	root, _, _, err := matcher.Generate(module)
	require.NoError(t, err)

	foundEqualTo := false
	var walk func(n matcher.Node)
	walk = func(n matcher.Node) {
		switch v := n.(type) {
		case *matcher.Bool:
			if v.Question.Kind().String() == "EqualTo" {
				foundEqualTo = true
			}
			walk(v.OnTrue)
			walk(v.OnFalse)
		case *matcher.Switch:
			for _, a := range v.CaseOrder {
				walk(*v.Cases[a])
			}
			walk(v.OnFalse)
		case *matcher.Success:
			walk(v.OnFalse)
		}
	}
	walk(root)
	assert.True(t, foundEqualTo, "reusing an operand via ref should produce an EqualTo test")
}

func TestLoadModuleConstraintReferencesBoundName(t *testing.T) {
	yamlDoc := `
patterns:
  - name: with-constraint
    root:
      op: add
    constraints:
      - name: sameWidth
        args: [root]
`
	module, err := loadModule([]byte(yamlDoc))
	require.NoError(t, err)

	p := module.Patterns[0]
	require.Len(t, p.Constraints, 1)
	assert.Equal(t, "sameWidth", p.Constraints[0].Name)
	assert.Same(t, p.Root, p.Constraints[0].Args[0])
}

func TestLoadModuleUnboundConstraintArgIsAnError(t *testing.T) {
	yamlDoc := `
patterns:
  - name: bad
    root:
      op: add
    constraints:
      - name: c
        args: [nowhere]
`
	_, err := loadModule([]byte(yamlDoc))
	assert.Error(t, err)
}

func TestLoadModuleMissingRootIsAnError(t *testing.T) {
	yamlDoc := `
patterns:
  - name: bad
`
	_, err := loadModule([]byte(yamlDoc))
	assert.Error(t, err)
}
