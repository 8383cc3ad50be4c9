package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/platinummonkey/inclint/pkg/linter"
	"github.com/platinummonkey/inclint/pkg/linter/rules"
)

// newRulesCommand lists the built-in rules
func newRulesCommand(out io.Writer) *Command {
	fs := flag.NewFlagSet("rules", flag.ContinueOnError)

	return &Command{
		Name:        "rules",
		Description: "List available lint rules",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}
			engine := linter.NewLintEngine(nil)
			rules.RegisterDefaultRules(engine.Registry())
			return lintListRules(out, engine)
		},
	}
}

func lintListRules(out io.Writer, engine *linter.LintEngine) error {
	allRules := engine.Registry().GetAllRules()

	fmt.Fprintf(out, "Available lint rules (%d):\n\n", len(allRules))

	// Group by category, in first-seen order
	var categories []linter.Category
	byCategory := make(map[linter.Category][]linter.Rule)
	for _, rule := range allRules {
		cat := rule.Category()
		if _, ok := byCategory[cat]; !ok {
			categories = append(categories, cat)
		}
		byCategory[cat] = append(byCategory[cat], rule)
	}

	for _, cat := range categories {
		catName := string(cat)
		if len(catName) > 0 {
			catName = strings.ToUpper(catName[:1]) + catName[1:]
		}

		fmt.Fprintf(out, "%s Rules:\n", catName)
		for _, rule := range byCategory[cat] {
			autofix := ""
			if rule.CanAutoFix() {
				autofix = " [auto-fix]"
			}
			fmt.Fprintf(out, "  - %-25s [%s]%s\n    %s\n",
				rule.Name(),
				rule.Severity(),
				autofix,
				rule.Description(),
			)
		}
		fmt.Fprintln(out)
	}

	return nil
}
