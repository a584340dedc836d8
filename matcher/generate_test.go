package matcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/qualifier"
)

// nullaryPattern builds a pattern whose root is a fixed-name operation with
// no operands or results.
func nullaryPattern(idx int, name, opName string) *ir.Pattern {
	b := ir.NewBuilder(idx)
	root := b.Operation([]string{"root"}, opName, true)
	return b.Pattern(name, root, nil)
}

func collectNodeTypes(n Node, seen map[string]int) {
	switch v := n.(type) {
	case *Switch:
		seen["Switch"]++
		for _, a := range v.CaseOrder {
			collectNodeTypes(*v.Cases[a], seen)
		}
		collectNodeTypes(v.OnFalse, seen)
	case *Bool:
		seen["Bool"]++
		collectNodeTypes(v.OnTrue, seen)
		collectNodeTypes(v.OnFalse, seen)
	case *Success:
		seen["Success"]++
		collectNodeTypes(v.OnFalse, seen)
	case *Exit:
		seen["Exit"]++
	}
}

func assertNoSingleCaseSwitch(t *testing.T, n Node) {
	t.Helper()
	switch v := n.(type) {
	case *Switch:
		if len(v.CaseOrder) == 1 {
			t.Errorf("found a Switch with exactly one case: %s (should have folded to Bool)", v)
		}
		for _, a := range v.CaseOrder {
			assertNoSingleCaseSwitch(t, *v.Cases[a])
		}
		assertNoSingleCaseSwitch(t, v.OnFalse)
	case *Bool:
		assertNoSingleCaseSwitch(t, v.OnTrue)
		assertNoSingleCaseSwitch(t, v.OnFalse)
	case *Success:
		assertNoSingleCaseSwitch(t, v.OnFalse)
	}
}

// assertOnFalseReachesExit follows every onFalse/default link from n and
// fails if none of them bottoms out at an Exit within a generous bound
// (spec.md §8 "Exit termination").
func assertOnFalseReachesExit(t *testing.T, n Node) {
	t.Helper()
	cur := n
	for i := 0; i < 10_000; i++ {
		switch v := cur.(type) {
		case *Exit:
			return
		case *Switch:
			cur = v.OnFalse
		case *Bool:
			cur = v.OnFalse
		case *Success:
			cur = v.OnFalse
		default:
			t.Fatalf("onFalse chain did not terminate at Exit: hit %v", cur)
			return
		}
	}
	t.Fatal("onFalse chain exceeded bound without reaching Exit (possible cycle)")
}

// followOnFalseChain walks n's onFalse chain until it reaches a Success or
// an Exit, reporting which (and, for Success, whose pattern).
func followOnFalseChain(t *testing.T, n Node) (pattern *ir.Pattern, hitExit bool) {
	t.Helper()
	cur := n
	for i := 0; i < 10_000; i++ {
		switch v := cur.(type) {
		case *Exit:
			return nil, true
		case *Success:
			return v.Pattern, false
		case *Switch:
			cur = v.OnFalse
		case *Bool:
			cur = v.OnFalse
		default:
			t.Fatalf("onFalse chain hit an unexpected node: %v", cur)
			return nil, false
		}
	}
	t.Fatal("onFalse chain exceeded bound without reaching Success or Exit")
	return nil, false
}

// collectSuccesses gathers every Success node's pattern reachable from n.
func collectSuccesses(n Node, out map[*ir.Pattern]int) {
	switch v := n.(type) {
	case *Switch:
		for _, a := range v.CaseOrder {
			collectSuccesses(*v.Cases[a], out)
		}
		collectSuccesses(v.OnFalse, out)
	case *Bool:
		collectSuccesses(v.OnTrue, out)
		collectSuccesses(v.OnFalse, out)
	case *Success:
		out[v.Pattern]++
		collectSuccesses(v.OnFalse, out)
	}
}

func TestGenerateSinglePatternSucceeds(t *testing.T) {
	p1 := nullaryPattern(0, "p1", "add")
	module := &ir.Module{Patterns: []*ir.Pattern{p1}}

	root, _, _, err := Generate(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertNoSingleCaseSwitch(t, root)
	assertOnFalseReachesExit(t, root)

	successes := map[*ir.Pattern]int{}
	collectSuccesses(root, successes)
	if successes[p1] != 1 {
		t.Fatalf("expected exactly one Success(p1), got %d", successes[p1])
	}

	b, ok := root.(*Bool)
	if !ok {
		t.Fatalf("expected the root to fold to a Bool, got %T", root)
	}
	if b.Question.Kind() != qualifier.OperationName || b.ExpectedAnswer.Name() != "add" {
		t.Errorf("expected root Bool to test OperationName == add, got %s == %s", b.Question, b.ExpectedAnswer)
	}
}

func TestGenerateDivergingOpNamesProducesSwitch(t *testing.T) {
	p1 := nullaryPattern(0, "p1", "add")
	p2 := nullaryPattern(1, "p2", "sub")
	module := &ir.Module{Patterns: []*ir.Pattern{p1, p2}}

	root, _, _, err := Generate(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sw, ok := root.(*Switch)
	if !ok {
		t.Fatalf("expected the root to remain a Switch (2 distinct op names), got %T", root)
	}
	if sw.Question.Kind() != qualifier.OperationName {
		t.Fatalf("expected root switch to discriminate on OperationName, got %s", sw.Question)
	}
	if len(sw.CaseOrder) != 2 {
		t.Fatalf("expected exactly 2 cases (add, sub), got %d", len(sw.CaseOrder))
	}

	assertNoSingleCaseSwitch(t, root)
	assertOnFalseReachesExit(t, root)

	successes := map[*ir.Pattern]int{}
	collectSuccesses(root, successes)
	if successes[p1] != 1 || successes[p2] != 1 {
		t.Fatalf("expected exactly one Success per pattern, got %v", successes)
	}

	if _, ok := sw.OnFalse.(*Exit); !ok {
		t.Errorf("expected the switch's default branch to be Exit directly, got %T", sw.OnFalse)
	}
}

func TestGenerateFoldsSwitchWithOneCaseToBool(t *testing.T) {
	p1 := nullaryPattern(0, "p1", "add")
	p2 := nullaryPattern(1, "p2", "add")
	module := &ir.Module{Patterns: []*ir.Pattern{p1, p2}}

	root, _, _, err := Generate(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]int{}
	collectNodeTypes(root, seen)
	if seen["Switch"] != 0 {
		t.Errorf("expected no Switch nodes once every discriminator has a single shared answer, found %d", seen["Switch"])
	}
	if seen["Success"] != 2 {
		t.Errorf("expected two Success nodes (one per pattern), got %d", seen["Success"])
	}

	if _, ok := root.(*Bool); !ok {
		t.Fatalf("expected root to be a Bool, got %T", root)
	}

	assertOnFalseReachesExit(t, root)
}

func TestGenerateEqualOperandsEmitsEqualTo(t *testing.T) {
	b := ir.NewBuilder(0)
	shared := b.Input([]string{"root", "operand(0)"})
	root := b.Operation([]string{"root"}, "add", true)
	root.Operands = []ir.Value{shared, shared}
	p1 := b.Pattern("p1", root, nil)

	module := &ir.Module{Patterns: []*ir.Pattern{p1}}
	rootNode, _, _, err := Generate(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foundEqual := false
	cur := rootNode
	for i := 0; i < 1000; i++ {
		bn, ok := cur.(*Bool)
		if !ok {
			break
		}
		if bn.Question.Kind() == qualifier.EqualTo {
			foundEqual = true
		}
		cur = bn.OnTrue
	}
	if !foundEqual {
		t.Fatal("expected an EqualTo test along the all-predicates-true path")
	}
}

func TestGenerateHoistsHigherPrimaryPredicate(t *testing.T) {
	var patterns []*ir.Pattern
	for i, name := range []string{"p1", "p2", "p3"} {
		b := ir.NewBuilder(i)
		root := b.Operation([]string{"root"}, "add", true)
		var constraints []*ir.ConstraintApplication
		if i == 0 {
			constraints = []*ir.ConstraintApplication{{Name: "onlyP1", Args: []ir.Value{root}}}
		}
		patterns = append(patterns, b.Pattern(name, root, constraints))
	}
	module := &ir.Module{Patterns: patterns}

	root, _, _, err := Generate(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bn, ok := root.(*Bool)
	if !ok {
		t.Fatalf("expected root to be a Bool, got %T", root)
	}
	if bn.Question.Kind() != qualifier.OperationName {
		t.Fatalf("expected the predicate shared by all 3 patterns (OperationName) to sort to the root, got %s", bn.Question)
	}

	// The onlyP1 constraint, referenced by a single pattern, must appear
	// strictly deeper than the root.
	var sawConstraint func(n Node, depth int) int
	sawConstraint = func(n Node, depth int) int {
		switch v := n.(type) {
		case *Bool:
			if v.Question.Kind() == qualifier.Constraint {
				return depth
			}
			if d := sawConstraint(v.OnTrue, depth+1); d >= 0 {
				return d
			}
			return sawConstraint(v.OnFalse, depth+1)
		case *Switch:
			if v.Question.Kind() == qualifier.Constraint {
				return depth
			}
			for _, a := range v.CaseOrder {
				if d := sawConstraint(*v.Cases[a], depth+1); d >= 0 {
					return d
				}
			}
			return sawConstraint(v.OnFalse, depth+1)
		default:
			return -1
		}
	}
	depth := sawConstraint(root, 0)
	if depth <= 0 {
		t.Fatalf("expected the per-pattern constraint to appear strictly below the root, got depth %d", depth)
	}
}

// TestGenerateSeedScenario2SuccessChainWalk builds spec.md §8's seed
// scenario 2 verbatim: P1 and P2 both require root op "add"; P1
// additionally requires operand 0's defining op to be "mul". The root
// folds to a Bool testing OperationName == add; everything downstream of
// that shared prefix must show P1's extra "mul" check growing a subtree
// below the prefix, with P2's Success installed nested inside that
// subtree's onFalse chain rather than exited directly off the shared
// prefix — the non-obvious installSuccess behavior recorded in DESIGN.md
// ("a later, less specific pattern's Success lands after whatever more
// specific subtree an earlier pattern already built there").
func TestGenerateSeedScenario2SuccessChainWalk(t *testing.T) {
	b1 := ir.NewBuilder(0)
	root1 := b1.Operation([]string{"root"}, "add", true)
	mulOperand := b1.Operation([]string{"root", "operand(0)"}, "mul", true)
	root1.Operands = []ir.Value{mulOperand}
	p1 := b1.Pattern("p1", root1, nil)

	b2 := ir.NewBuilder(1)
	root2 := b2.Operation([]string{"root"}, "add", true)
	root2.Operands = []ir.Value{b2.Input([]string{"root", "operand(0)"})}
	p2 := b2.Pattern("p2", root2, nil)

	module := &ir.Module{Patterns: []*ir.Pattern{p1, p2}}
	root, _, _, err := Generate(module)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertNoSingleCaseSwitch(t, root)
	assertOnFalseReachesExit(t, root)

	successes := map[*ir.Pattern]int{}
	collectSuccesses(root, successes)
	if successes[p1] != 1 || successes[p2] != 1 {
		t.Fatalf("expected exactly one Success per pattern, got %v", successes)
	}

	rootBool, ok := root.(*Bool)
	if !ok {
		t.Fatalf("expected root to fold to a Bool, got %T", root)
	}
	if rootBool.Question.Kind() != qualifier.OperationName || rootBool.ExpectedAnswer.Name() != "add" {
		t.Fatalf("expected root Bool to test OperationName == add, got %s == %s", rootBool.Question, rootBool.ExpectedAnswer)
	}

	// The root's own onFalse must reach Exit directly: P2 is not a
	// root-level sibling of P1, it is nested inside P1's subtree.
	if pat, hitExit := followOnFalseChain(t, rootBool.OnFalse); !hitExit || pat != nil {
		t.Fatalf("expected the root Bool's onFalse chain to reach Exit with no Success, got pattern=%v exit=%v", pat, hitExit)
	}

	// Walk the all-true chain from the root, looking for the Bool testing
	// operand 0's defining op name, and for Success(p2) nested in some
	// ancestor's onFalse chain along the way there.
	var mulBool *Bool
	sawP2Nested := false
	cur := Node(rootBool)
	for i := 0; i < 1000 && mulBool == nil; i++ {
		bn, ok := cur.(*Bool)
		if !ok {
			t.Fatalf("expected an unbroken Bool chain down to the mul check, got %T", cur)
		}
		if bn != rootBool {
			if pat, hitExit := followOnFalseChain(t, bn.OnFalse); !hitExit {
				switch pat {
				case p2:
					sawP2Nested = true
				case p1:
					t.Fatal("did not expect Success(p1) to appear before the mul check")
				}
			}
		}
		if bn.Question.Kind() == qualifier.OperationName && bn.ExpectedAnswer.Name() == "mul" {
			mulBool = bn
			break
		}
		cur = bn.OnTrue
	}
	if mulBool == nil {
		t.Fatal("expected to find a Bool testing operand 0's parent OperationName == mul along the all-true chain")
	}
	if mulBool.Position.Depth() <= rootBool.Position.Depth() {
		t.Fatalf("expected the mul check to sit strictly deeper than the root, got depth %d vs root depth %d", mulBool.Position.Depth(), rootBool.Position.Depth())
	}
	if !sawP2Nested {
		t.Fatal("expected Success(p2) nested in the onFalse chain of some Bool strictly between the root and the mul check")
	}

	// Following the mul Bool's true branch must reach Success(p1) before
	// anything else: p1 requires exactly this one additional check beyond
	// the shared prefix.
	cur = mulBool.OnTrue
	for i := 0; i < 1000; i++ {
		if s, ok := cur.(*Success); ok {
			if s.Pattern != p1 {
				t.Fatalf("expected Success(p1) to directly follow the mul check, got Success(%s)", s.Pattern.Name)
			}
			break
		}
		bn, ok := cur.(*Bool)
		if !ok {
			t.Fatalf("expected a Bool or Success node continuing from the mul check, got %T", cur)
		}
		cur = bn.OnTrue
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	build := func() *ir.Module {
		p1 := nullaryPattern(0, "p1", "add")
		p2 := nullaryPattern(1, "p2", "sub")
		return &ir.Module{Patterns: []*ir.Pattern{p1, p2}}
	}

	root1, _, _, err := Generate(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root2, _, _, err := Generate(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if Dump(root1) != Dump(root2) {
		t.Fatalf("expected structurally identical dumps across runs:\n--- run 1 ---\n%s\n--- run 2 ---\n%s", Dump(root1), Dump(root2))
	}
}

// TestGenerateIsDeterministicStructurally re-checks the property exercised
// textually above (TestGenerateIsDeterministic) via go-cmp against the
// JSON-able tree representation, the way the teacher's internal/parser
// golden tests compare structured values rather than their stringified
// form.
func TestGenerateIsDeterministicStructurally(t *testing.T) {
	build := func() *ir.Module {
		p1 := nullaryPattern(0, "p1", "add")
		p2 := nullaryPattern(1, "p2", "sub")
		p3 := nullaryPattern(2, "p3", "add")
		return &ir.Module{Patterns: []*ir.Pattern{p1, p2, p3}}
	}

	root1, _, _, err := Generate(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root2, _, _, err := Generate(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(ToJSON(root1), ToJSON(root2)); diff != "" {
		t.Fatalf("structurally identical pattern sets produced different trees (-run1 +run2):\n%s", diff)
	}
}

func TestGenerateRejectsUnboundConstraintArgument(t *testing.T) {
	b := ir.NewBuilder(0)
	root := b.Operation([]string{"root"}, "add", true)
	p1 := b.Pattern("p1", root, []*ir.ConstraintApplication{
		{Name: "neverBound", Args: []ir.Value{&ir.TypeValue{}}},
	})
	module := &ir.Module{Patterns: []*ir.Pattern{p1}}

	_, _, _, err := Generate(module)
	if err == nil {
		t.Fatal("expected a PatternAuthoring error for an unbound constraint argument")
	}
}
