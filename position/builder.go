package position

import (
	"fmt"

	"github.com/sunholo/rewritetree/internal/hashcons"
)

// Builder hands out interned Position handles. Identical arguments always
// return the identical *Position (spec.md §4.1, "Interning identity").
// A Builder is owned exclusively by one generator run and must not be
// shared across concurrent calls (spec.md §5).
type Builder struct {
	table *hashcons.Table[string, Position]
}

// NewBuilder creates an empty position builder.
func NewBuilder() *Builder {
	return &Builder{table: hashcons.New[string, Position]()}
}

// GetRoot returns the interned root position.
func (b *Builder) GetRoot() *Position {
	return b.table.Intern("root", func() Position {
		return Position{kind: Root, index: -1, path: nil}
	})
}

// GetOperand returns the interned position of operand i of the operation
// found at op.
func (b *Builder) GetOperand(op *Position, i int) *Position {
	key := fmt.Sprintf("operand|%s|%d", op.identity(), i)
	return b.table.Intern(key, func() Position {
		return Position{
			kind:   Operand,
			parent: op,
			index:  i,
			path:   appendPath(op.path, fmt.Sprintf("operand(%d)", i)),
		}
	})
}

// GetResult returns the interned position of result i of the operation
// found at op.
func (b *Builder) GetResult(op *Position, i int) *Position {
	key := fmt.Sprintf("result|%s|%d", op.identity(), i)
	return b.table.Intern(key, func() Position {
		return Position{
			kind:   Result,
			parent: op,
			index:  i,
			path:   appendPath(op.path, fmt.Sprintf("result(%d)", i)),
		}
	})
}

// GetAttribute returns the interned position of the named attribute of the
// operation found at op.
func (b *Builder) GetAttribute(op *Position, name string) *Position {
	key := fmt.Sprintf("attribute|%s|%s", op.identity(), name)
	return b.table.Intern(key, func() Position {
		return Position{
			kind:   Attribute,
			parent: op,
			index:  -1,
			name:   name,
			path:   appendPath(op.path, fmt.Sprintf("attr(%s)", name)),
		}
	})
}

// GetType returns the interned position of the type of whatever value lives
// at pos (an Operand, Result, or Attribute position).
func (b *Builder) GetType(pos *Position) *Position {
	key := fmt.Sprintf("type|%s", pos.identity())
	return b.table.Intern(key, func() Position {
		return Position{
			kind:   Type,
			parent: pos,
			index:  -1,
			path:   appendPath(pos.path, "type"),
		}
	})
}

// GetParent returns the interned position of the operation that owns the
// operand found at operandPos.
func (b *Builder) GetParent(operandPos *Position) *Position {
	key := fmt.Sprintf("parent|%s", operandPos.identity())
	return b.table.Intern(key, func() Position {
		return Position{
			kind:   Parent,
			parent: operandPos,
			index:  -1,
			path:   appendPath(operandPos.path, "parent"),
		}
	})
}

// Len reports how many distinct positions have been interned so far.
func (b *Builder) Len() int { return b.table.Len() }

func appendPath(parent []string, next string) []string {
	path := make([]string, len(parent)+1)
	copy(path, parent)
	path[len(parent)] = next
	return path
}
