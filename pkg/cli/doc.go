// Package cli provides the inclint command-line interface.
//
// # Commands
//
// lint: Check include ordering under the given files and directories
//
//	inclint lint ./src ./include
//	inclint lint -format github -fail-on-warning .
//	inclint lint -fix -associated-header match src/
//
// rules: List the built-in rules
//
//	inclint rules
//
// init: Write a default inclint.yaml
//
//	inclint init -dir .
//
// # Configuration
//
// Rule settings are read from -config, or from inclint.yaml in the first
// path given. Runtime settings come from INCLINT_* environment variables
// (see pkg/config); flags override both.
//
// # Related Packages
//
//   - pkg/linter: Lint engine and configuration
//   - pkg/linter/rules: Built-in rules
package cli
