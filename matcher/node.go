// Package matcher grows the shared decision tree from the ordered,
// deduplicated predicates produced by package predicate (spec.md §4.6-4.8).
// Grounded structurally on the teacher's internal/dtree/decision_tree.go: a
// tagged interface with a private marker method and one struct per variant.
// Grounded algorithmically on PredicateTree.cpp's propagatePattern,
// foldSwitchToBool, and insertExitNode in original_source.
package matcher

import (
	"fmt"

	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/position"
	"github.com/sunholo/rewritetree/qualifier"
)

// Node is a node in the synthesized matcher tree. Concrete variants are
// Bool, Switch, Success, and Exit (spec.md §3 "MatcherNode").
type Node interface {
	matcherNode()
	String() string
}

// Bool tests a single (position, question) against one expected answer.
// Bool nodes never come out of propagation directly; they are produced by
// folding a Switch with exactly one case (spec.md §4.7).
type Bool struct {
	Position       *position.Position
	Question       *qualifier.Question
	ExpectedAnswer *qualifier.Answer
	OnTrue         Node
	OnFalse        Node
}

func (b *Bool) matcherNode() {}
func (b *Bool) String() string {
	return fmt.Sprintf("Bool(%s, %s == %s)", b.Position, b.Question, b.ExpectedAnswer)
}

// Switch dispatches on the answer to a single (position, question) among
// multiple cases, falling to OnFalse when no case's answer matches.
type Switch struct {
	Position  *position.Position
	Question  *qualifier.Question
	CaseOrder []*qualifier.Answer
	Cases     map[*qualifier.Answer]*Node
	OnFalse   Node
}

func (s *Switch) matcherNode() {}
func (s *Switch) String() string {
	return fmt.Sprintf("Switch(%s, %s, cases=%d)", s.Position, s.Question, len(s.CaseOrder))
}

// childSlot returns the addressable slot for answer, creating an empty one
// if this is the first pattern to reach that case.
func (s *Switch) childSlot(answer *qualifier.Answer) *Node {
	if slot, ok := s.Cases[answer]; ok {
		return slot
	}
	slot := new(Node)
	if s.Cases == nil {
		s.Cases = make(map[*qualifier.Answer]*Node)
	}
	s.Cases[answer] = slot
	s.CaseOrder = append(s.CaseOrder, answer)
	return slot
}

// Success is a leaf recording that pattern's predicates are all satisfied.
// OnFalse still chains onward so that other, less specific patterns sharing
// a prefix with this one can also be tried (spec.md §4.6, seed scenario 2).
type Success struct {
	Pattern *ir.Pattern
	OnFalse Node
}

func (s *Success) matcherNode() {}
func (s *Success) String() string {
	return fmt.Sprintf("Success(%s)", s.Pattern.Name)
}

// Exit is the terminal node: no further patterns to try along this path.
type Exit struct{}

func (e *Exit) matcherNode() {}
func (e *Exit) String() string { return "Exit" }

// onFalseSlot returns the addressable OnFalse field of n, or nil if n has
// none (Bool during propagation never appears, and Exit has no failure
// successor).
func onFalseSlot(n Node) *Node {
	switch v := n.(type) {
	case *Switch:
		return &v.OnFalse
	case *Success:
		return &v.OnFalse
	case *Bool:
		return &v.OnFalse
	default:
		return nil
	}
}
