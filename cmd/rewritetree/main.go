// Command rewritetree is the driver that exercises the matcher generator
// end-to-end, grounded on the teacher's cmd/ailang and cmd/test_dict_demo
// entry points: a thin main that parses flags/args, loads input, calls
// into the library packages, and reports results with colored status
// lines. It is glue external to the algorithm (spec.md keeps driver code
// out of the pass's contract) — everything it does is a thin wrapper
// around predicate.BuildAndOrder and matcher.Generate.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	rterrors "github.com/sunholo/rewritetree/internal/errors"
	"github.com/sunholo/rewritetree/internal/railconfig"
	"github.com/sunholo/rewritetree/internal/schema"
	"github.com/sunholo/rewritetree/ir"
	"github.com/sunholo/rewritetree/matcher"
	"github.com/sunholo/rewritetree/position"
	"github.com/sunholo/rewritetree/predicate"
	"github.com/sunholo/rewritetree/qualifier"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func main() {
	opts := railconfig.Default()

	rootCmd := &cobra.Command{
		Use:   "rewritetree",
		Short: "Lower declarative rewrite patterns into a shared matcher tree",
		Long:  "rewritetree merges a set of declarative rewrite patterns into a single deterministic matcher decision tree.",
	}
	rootCmd.PersistentFlags().BoolVar(&opts.Deterministic, "deterministic", false, "run generation twice and fail if the two trees differ")
	rootCmd.PersistentFlags().BoolVar(&opts.DumpJSON, "json", false, "emit JSON instead of the text dump")

	buildCmd := &cobra.Command{
		Use:   "build <patterns.yaml>",
		Short: "Generate the matcher tree for a pattern module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], opts)
		},
	}

	dumpPredicatesCmd := &cobra.Command{
		Use:   "dump-predicates <patterns.yaml>",
		Short: "Print the ordered, cost-scored predicate list for a pattern module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDumpPredicates(args[0], opts)
		},
	}

	rootCmd.AddCommand(buildCmd, dumpPredicatesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}

func runBuild(path string, opts railconfig.BuildOptions) error {
	module, err := loadModuleFile(path)
	if err != nil {
		return err
	}

	root, _, _, err := matcher.Generate(module)
	if err != nil {
		return reportErr(err)
	}

	if opts.Deterministic {
		root2, _, _, err := matcher.Generate(module)
		if err != nil {
			return reportErr(err)
		}
		if matcher.Dump(root) != matcher.Dump(root2) {
			return fmt.Errorf("determinism check failed: two runs of Generate produced different trees")
		}
		fmt.Fprintf(os.Stderr, "%s determinism check passed\n", green("ok"))
	}

	fmt.Printf("%s %d pattern(s) merged\n", bold(cyan("rewritetree")), len(module.Patterns))
	if opts.DumpJSON {
		return printTreeJSON(root)
	}
	fmt.Print(matcher.Dump(root))
	return nil
}

func runDumpPredicates(path string, opts railconfig.BuildOptions) error {
	module, err := loadModuleFile(path)
	if err != nil {
		return err
	}

	pb := position.NewBuilder()
	qb := qualifier.NewBuilder()
	ordered, _, err := predicate.BuildAndOrder(module, pb, qb)
	if err != nil {
		return reportErr(err)
	}

	if opts.DumpJSON {
		return printPredicatesJSON(ordered)
	}

	fmt.Printf("%s %d ordered predicate(s)\n", bold(cyan("rewritetree")), len(ordered))
	for i, o := range ordered {
		fmt.Printf("%3d. %-10s %-28s primary=%-3d secondary=%d\n", i, o.Position, o.Question, o.Primary, o.Secondary)
	}
	return nil
}

func loadModuleFile(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	module, err := loadModule(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return module, nil
}

func printTreeJSON(root matcher.Node) error {
	data, err := schema.MarshalDeterministic(matcher.ToJSON(root))
	if err != nil {
		return fmt.Errorf("marshaling tree: %w", err)
	}
	pretty, err := schema.FormatJSON(data)
	if err != nil {
		return fmt.Errorf("formatting tree: %w", err)
	}
	fmt.Println(string(pretty))
	return nil
}

func printPredicatesJSON(ordered []*predicate.Ordered) error {
	rows := make([]map[string]any, 0, len(ordered))
	for _, o := range ordered {
		rows = append(rows, map[string]any{
			"position":  o.Position.String(),
			"question":  o.Question.String(),
			"primary":   o.Primary,
			"secondary": o.Secondary,
		})
	}
	data, err := schema.MarshalDeterministic(map[string]any{
		"schema":     schema.MatcherV1,
		"predicates": rows,
	})
	if err != nil {
		return fmt.Errorf("marshaling predicates: %w", err)
	}
	pretty, err := schema.FormatJSON(data)
	if err != nil {
		return fmt.Errorf("formatting predicates: %w", err)
	}
	fmt.Println(string(pretty))
	return nil
}

// reportErr renders a *errors.Report produced by the library packages with
// its code and phase, falling back to a plain error string for anything
// else (matches the teacher's practice of printing structured errors with
// their code prefix visible, see internal/errors/report.go ToJSON/ToText
// callers in cmd/ailang).
func reportErr(err error) error {
	if rep, ok := rterrors.AsReport(err); ok {
		return fmt.Errorf("[%s/%s] %s", rep.Code, rep.Phase, rep.Message)
	}
	return err
}
