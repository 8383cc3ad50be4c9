package rules

import (
	"github.com/platinummonkey/inclint/pkg/linter"
)

// Registry interface for registering rules
type Registry interface {
	Register(rule linter.Rule)
}

// DefaultRules returns the built-in rules
func DefaultRules() []linter.Rule {
	return []linter.Rule{
		NewIncludePositionRule(),
		NewIncludePrecedenceRule(),
		NewIncludeSortRule(),
	}
}

// RegisterDefaultRules registers all built-in lint rules
func RegisterDefaultRules(registry Registry) {
	for _, rule := range DefaultRules() {
		registry.Register(rule)
	}
}
