// Package qualifier implements the Question/Answer tagged values of
// spec.md §3. Grounded on PredicateTree.cpp's predicate kinds (IsNotNull,
// OperationName, OperandCount, ResultCount, TypeConstraint,
// AttributeConstraint, EqualTo, Constraint) in original_source, split into
// a dedup-facing Question (the kind being asked) and a per-pattern Answer
// (the expected outcome), so that patterns expecting different answers to
// the same question collapse into one Switch decision node (spec.md §8,
// seed scenario 3).
package qualifier

import (
	"fmt"

	"github.com/sunholo/rewritetree/position"
)

// QuestionKind discriminates the variants of Question.
type QuestionKind int

const (
	IsNotNull QuestionKind = iota
	OperationName
	OperandCount
	ResultCount
	AttributeConstraint
	TypeConstraint
	EqualTo
	Constraint
)

func (k QuestionKind) String() string {
	switch k {
	case IsNotNull:
		return "IsNotNull"
	case OperationName:
		return "OperationName"
	case OperandCount:
		return "OperandCount"
	case ResultCount:
		return "ResultCount"
	case AttributeConstraint:
		return "AttributeConstraint"
	case TypeConstraint:
		return "TypeConstraint"
	case EqualTo:
		return "EqualTo"
	case Constraint:
		return "Constraint"
	default:
		return fmt.Sprintf("QuestionKind(%d)", int(k))
	}
}

// questionOrder fixes the tie-break order of question kinds in the cost
// model (spec.md §4.5, §9). Front-loads cheap arity/identity checks before
// value constraints, and puts Constraint last since it can only be
// evaluated once its arguments are already bound.
var questionOrder = map[QuestionKind]int{
	IsNotNull:           0,
	OperationName:       1,
	OperandCount:        2,
	ResultCount:         3,
	AttributeConstraint: 4,
	TypeConstraint:      5,
	EqualTo:             6,
	Constraint:          7,
}

// Rank returns this kind's place in the fixed tie-break order.
func (k QuestionKind) Rank() int { return questionOrder[k] }

// Question is an interned (kind, payload) pair identifying what is being
// asked at a Position. Questions that compare equal by kind and payload are
// the same decision node across patterns, regardless of which answer a
// given pattern expects (spec.md §4.4 dedup key).
type Question struct {
	kind QuestionKind

	// EqualTo only.
	equalTo *position.Position

	// Constraint only.
	constraintName   string
	constraintArgs   []*position.Position
	constraintParams any
}

// Kind reports this question's variant.
func (q *Question) Kind() QuestionKind { return q.kind }

// EqualToPosition returns the referenced position for an EqualTo question.
func (q *Question) EqualToPosition() *position.Position { return q.equalTo }

// ConstraintName returns the constraint name for a Constraint question.
func (q *Question) ConstraintName() string { return q.constraintName }

// ConstraintArgs returns the ordered argument positions for a Constraint
// question. The slice must not be mutated by callers.
func (q *Question) ConstraintArgs() []*position.Position { return q.constraintArgs }

// ConstraintParams returns the opaque parameter blob for a Constraint
// question.
func (q *Question) ConstraintParams() any { return q.constraintParams }

func (q *Question) String() string {
	switch q.kind {
	case EqualTo:
		return fmt.Sprintf("EqualTo(%s)", q.equalTo)
	case Constraint:
		return fmt.Sprintf("Constraint(%s, %v)", q.constraintName, q.constraintArgs)
	default:
		return q.kind.String()
	}
}

// AnswerKind discriminates the variants of Answer.
type AnswerKind int

const (
	True AnswerKind = iota
	NameAnswer
	CountAnswer
	TypeAnswer
	AttributeAnswer
)

func (k AnswerKind) String() string {
	switch k {
	case True:
		return "True"
	case NameAnswer:
		return "NameAnswer"
	case CountAnswer:
		return "CountAnswer"
	case TypeAnswer:
		return "TypeAnswer"
	case AttributeAnswer:
		return "AttributeAnswer"
	default:
		return fmt.Sprintf("AnswerKind(%d)", int(k))
	}
}

// Answer is an interned expected outcome of a Question. Distinct answers to
// the same question, across the pattern set, become distinct Switch cases
// at the one decision node the question dedups to.
type Answer struct {
	kind  AnswerKind
	name  string
	count int
	typ   string
	attr  string
}

// Kind reports this answer's variant.
func (a *Answer) Kind() AnswerKind { return a.kind }

// Name returns the payload of a NameAnswer.
func (a *Answer) Name() string { return a.name }

// Count returns the payload of a CountAnswer.
func (a *Answer) Count() int { return a.count }

// TypeName returns the payload of a TypeAnswer.
func (a *Answer) TypeName() string { return a.typ }

// AttributeValue returns the payload of an AttributeAnswer.
func (a *Answer) AttributeValue() string { return a.attr }

func (a *Answer) String() string {
	switch a.kind {
	case True:
		return "true"
	case NameAnswer:
		return a.name
	case CountAnswer:
		return fmt.Sprintf("%d", a.count)
	case TypeAnswer:
		return a.typ
	case AttributeAnswer:
		return a.attr
	default:
		return "?"
	}
}
