// Package position implements the position algebra of spec.md §3: an
// interned description of *where*, relative to a pattern's match root, a
// predicate applies. Grounded on PredicateTree.h/.cpp's Position hierarchy
// (RootPosition, OperandPosition, ResultPosition, AttributePosition,
// TypePosition, OperationPosition-via-getDefiningOp) in original_source.
package position

import "fmt"

// Kind discriminates the variants of Position.
type Kind int

const (
	Root Kind = iota
	Operand
	Result
	Attribute
	Type
	Parent
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Operand:
		return "operand"
	case Result:
		return "result"
	case Attribute:
		return "attribute"
	case Type:
		return "type"
	case Parent:
		return "parent"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// kindOrder fixes the relative order of position kinds for the cost-model
// tie-break of spec.md §4.5. The exact order is implementation-defined
// (spec.md §9); this one front-loads cheap structural checks and defers
// Parent, which re-anchors on another operation, to last.
var kindOrder = map[Kind]int{
	Root:      0,
	Operand:   1,
	Result:    2,
	Attribute: 3,
	Type:      4,
	Parent:    5,
}

// Rank returns this kind's place in the fixed tie-break order.
func (k Kind) Rank() int { return kindOrder[k] }

// Position locates a point in a hypothetical candidate IR subtree relative
// to a pattern's match root. Positions are immutable once built and are
// interned by Builder: two positions are equal iff their kind, parent, and
// disambiguator are equal (spec.md §3).
type Position struct {
	kind   Kind
	parent *Position // nil only for Root
	index  int        // operand/result index; -1 when not applicable
	name   string      // attribute name; "" when not applicable
	path   []string    // index path from root, one entry per ancestor
}

// Kind reports this position's variant.
func (p *Position) Kind() Kind { return p.kind }

// ParentPosition returns the position this one is anchored on, or nil for
// Root.
func (p *Position) ParentPosition() *Position { return p.parent }

// Index returns the operand or result index for Operand/Result positions,
// or -1 for other kinds.
func (p *Position) Index() int { return p.index }

// AttrName returns the attribute name for Attribute positions, or "" for
// other kinds.
func (p *Position) AttrName() string { return p.name }

// Depth returns the index-path length: 0 for Root, increasing by one per
// hop away from the root.
func (p *Position) Depth() int { return len(p.path) }

// IsRoot reports whether this position is the match root.
func (p *Position) IsRoot() bool { return p.kind == Root }

// Path returns the index path from the root, one string per ancestor hop.
// The slice must not be mutated by callers.
func (p *Position) Path() []string { return p.path }

func (p *Position) String() string {
	switch p.kind {
	case Root:
		return "root"
	case Operand:
		return fmt.Sprintf("%s.operand(%d)", p.parent, p.index)
	case Result:
		return fmt.Sprintf("%s.result(%d)", p.parent, p.index)
	case Attribute:
		return fmt.Sprintf("%s.attr(%q)", p.parent, p.name)
	case Type:
		return fmt.Sprintf("%s.type", p.parent)
	case Parent:
		return fmt.Sprintf("%s.parent", p.parent)
	default:
		return "invalid-position"
	}
}

// identity returns a stable key for this position usable as a map key
// fragment when building a child's interning key. Positions are themselves
// interned, so two logically equal parents always share one *Position and
// therefore one identity string within a single generator run.
func (p *Position) identity() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%p", p)
}
