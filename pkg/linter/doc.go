// Package linter runs include-order rules over C-family sources and applies
// automatic fixes for violations.
//
// # Overview
//
// Each file is scanned for inclusion directives, the directive stream is
// validated once per file, and every enabled rule turns the diagnostics of
// its kind into violations. Results can be cached by content hash and are
// produced concurrently across files.
//
// # Configuration
//
// Rules are toggled and re-leveled through inclint.yaml:
//
//	version: v1
//	lint:
//	  rules:
//	    include-sort: false
//	  severity:
//	    include-precedence: error
//	  associated_header: match
//	  ignore:
//	    - "vendor/**"
//	  files:
//	    "generated/**":
//	      rules:
//	        include-position: false
//	autofix:
//	  enabled: true
//
// # Usage Example
//
//	config, err := linter.LoadConfigFromDir(".")
//	if err != nil {
//		return err
//	}
//
//	engine := linter.NewLintEngine(config, linter.WithWorkers(8))
//	rules.RegisterDefaultRules(engine.Registry())
//
//	paths, err := linter.ExpandPaths([]string{"src"}, config)
//	if err != nil {
//		return err
//	}
//	results, err := engine.LintFiles(ctx, paths)
//	if err != nil {
//		return err
//	}
//
//	summary := engine.GenerateSummary(results)
//	fmt.Printf("Violations: %d errors, %d warnings\n",
//		summary.Errors, summary.Warnings)
//
// # Related Packages
//
//   - pkg/includeorder: The per-file ordering validator
//   - pkg/scanner: Directive extraction
//   - pkg/linter/rules: Built-in rules
package linter
