package qualifier

import (
	"fmt"

	"github.com/sunholo/rewritetree/internal/hashcons"
	"github.com/sunholo/rewritetree/position"
)

// Builder hands out interned Question and Answer handles. A Builder is
// owned exclusively by one generator run (spec.md §5).
type Builder struct {
	questions *hashcons.Table[string, Question]
	answers   *hashcons.Table[string, Answer]
}

// NewBuilder creates an empty qualifier builder.
func NewBuilder() *Builder {
	return &Builder{
		questions: hashcons.New[string, Question](),
		answers:   hashcons.New[string, Answer](),
	}
}

// GetIsNotNull returns the interned IsNotNull question.
func (b *Builder) GetIsNotNull() *Question {
	return b.questions.Intern("isnotnull", func() Question {
		return Question{kind: IsNotNull}
	})
}

// GetOperationName returns the interned OperationName question.
func (b *Builder) GetOperationName() *Question {
	return b.questions.Intern("opname", func() Question {
		return Question{kind: OperationName}
	})
}

// GetOperandCount returns the interned OperandCount question.
func (b *Builder) GetOperandCount() *Question {
	return b.questions.Intern("operandcount", func() Question {
		return Question{kind: OperandCount}
	})
}

// GetResultCount returns the interned ResultCount question.
func (b *Builder) GetResultCount() *Question {
	return b.questions.Intern("resultcount", func() Question {
		return Question{kind: ResultCount}
	})
}

// GetTypeConstraint returns the interned TypeConstraint question.
func (b *Builder) GetTypeConstraint() *Question {
	return b.questions.Intern("typeconstraint", func() Question {
		return Question{kind: TypeConstraint}
	})
}

// GetAttributeConstraint returns the interned AttributeConstraint question.
func (b *Builder) GetAttributeConstraint() *Question {
	return b.questions.Intern("attributeconstraint", func() Question {
		return Question{kind: AttributeConstraint}
	})
}

// GetEqualTo returns the interned EqualTo question referencing other.
func (b *Builder) GetEqualTo(other *position.Position) *Question {
	key := fmt.Sprintf("equalto|%p", other)
	return b.questions.Intern(key, func() Question {
		return Question{kind: EqualTo, equalTo: other}
	})
}

// GetConstraint returns the interned Constraint question for the named
// user-defined constraint applied to args with the given opaque params.
func (b *Builder) GetConstraint(name string, args []*position.Position, params any) *Question {
	key := fmt.Sprintf("constraint|%s", name)
	for _, a := range args {
		key += fmt.Sprintf("|%p", a)
	}
	key += fmt.Sprintf("|%v", params)
	return b.questions.Intern(key, func() Question {
		return Question{kind: Constraint, constraintName: name, constraintArgs: args, constraintParams: params}
	})
}

// GetTrue returns the interned boolean True answer.
func (b *Builder) GetTrue() *Answer {
	return b.answers.Intern("true", func() Answer {
		return Answer{kind: True}
	})
}

// GetNameAnswer returns the interned NameAnswer for name.
func (b *Builder) GetNameAnswer(name string) *Answer {
	key := "name|" + name
	return b.answers.Intern(key, func() Answer {
		return Answer{kind: NameAnswer, name: name}
	})
}

// GetCountAnswer returns the interned CountAnswer for n.
func (b *Builder) GetCountAnswer(n int) *Answer {
	key := fmt.Sprintf("count|%d", n)
	return b.answers.Intern(key, func() Answer {
		return Answer{kind: CountAnswer, count: n}
	})
}

// GetTypeAnswer returns the interned TypeAnswer for t.
func (b *Builder) GetTypeAnswer(t string) *Answer {
	key := "type|" + t
	return b.answers.Intern(key, func() Answer {
		return Answer{kind: TypeAnswer, typ: t}
	})
}

// GetAttributeAnswer returns the interned AttributeAnswer for v.
func (b *Builder) GetAttributeAnswer(v string) *Answer {
	key := "attr|" + v
	return b.answers.Intern(key, func() Answer {
		return Answer{kind: AttributeAnswer, attr: v}
	})
}
