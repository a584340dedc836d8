package matcher

import (
	"fmt"
	"strings"

	"github.com/sunholo/rewritetree/internal/schema"
)

// Dump renders root as an indented, deterministic text tree, used by the
// `rewritetree build` command and by tests for canonical structural
// comparison (spec.md §8 "Determinism").
func Dump(root Node) string {
	var sb strings.Builder
	dumpNode(&sb, root, 0)
	return sb.String()
}

// ToJSON renders root as a generic JSON-able value (nested maps and
// slices), for the `--json` output of the rewritetree build command and
// for structural comparisons in tests. Schema internal/schema.MatcherV1.
func ToJSON(root Node) map[string]any {
	return map[string]any{
		"schema": schema.MatcherV1,
		"root":   nodeToJSON(root),
	}
}

func nodeToJSON(n Node) any {
	switch v := n.(type) {
	case nil:
		return nil
	case *Bool:
		return map[string]any{
			"kind":     "bool",
			"position": v.Position.String(),
			"question": v.Question.String(),
			"expect":   v.ExpectedAnswer.String(),
			"onTrue":   nodeToJSON(v.OnTrue),
			"onFalse":  nodeToJSON(v.OnFalse),
		}
	case *Switch:
		cases := make([]map[string]any, 0, len(v.CaseOrder))
		for _, a := range v.CaseOrder {
			cases = append(cases, map[string]any{
				"answer": a.String(),
				"node":   nodeToJSON(*v.Cases[a]),
			})
		}
		return map[string]any{
			"kind":     "switch",
			"position": v.Position.String(),
			"question": v.Question.String(),
			"cases":    cases,
			"onFalse":  nodeToJSON(v.OnFalse),
		}
	case *Success:
		return map[string]any{
			"kind":    "success",
			"pattern": v.Pattern.Name,
			"onFalse": nodeToJSON(v.OnFalse),
		}
	case *Exit:
		return map[string]any{"kind": "exit"}
	default:
		return nil
	}
}

func dumpNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case nil:
		fmt.Fprintf(sb, "%s<nil>\n", indent)
	case *Bool:
		fmt.Fprintf(sb, "%sBool %s %s == %s\n", indent, v.Position, v.Question, v.ExpectedAnswer)
		fmt.Fprintf(sb, "%strue:\n", indent)
		dumpNode(sb, v.OnTrue, depth+1)
		fmt.Fprintf(sb, "%sfalse:\n", indent)
		dumpNode(sb, v.OnFalse, depth+1)
	case *Switch:
		fmt.Fprintf(sb, "%sSwitch %s %s\n", indent, v.Position, v.Question)
		for _, a := range v.CaseOrder {
			fmt.Fprintf(sb, "%scase %s:\n", indent, a)
			dumpNode(sb, *v.Cases[a], depth+1)
		}
		fmt.Fprintf(sb, "%sdefault:\n", indent)
		dumpNode(sb, v.OnFalse, depth+1)
	case *Success:
		fmt.Fprintf(sb, "%sSuccess %s\n", indent, v.Pattern.Name)
		fmt.Fprintf(sb, "%selse:\n", indent)
		dumpNode(sb, v.OnFalse, depth+1)
	case *Exit:
		fmt.Fprintf(sb, "%sExit\n", indent)
	}
}
