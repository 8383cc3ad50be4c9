package rules

import (
	"github.com/platinummonkey/inclint/pkg/includeorder"
	"github.com/platinummonkey/inclint/pkg/linter"
)

// IncludeRule reports one kind of include-order diagnostic
type IncludeRule struct {
	BaseRule
	kind includeorder.RuleID
}

// NewIncludePositionRule reports includes that are not where the previous
// include says they should be
func NewIncludePositionRule() *IncludeRule {
	return newIncludeRule("include-position", includeorder.RulePosition,
		"System and local include groups are separated by exactly one blank line; includes within a group are adjacent")
}

// NewIncludePrecedenceRule reports system includes that follow a local include
func NewIncludePrecedenceRule() *IncludeRule {
	return newIncludeRule("include-precedence", includeorder.RulePrecedence,
		"System includes precede local includes")
}

// NewIncludeSortRule reports includes out of byte-wise order within a group
func NewIncludeSortRule() *IncludeRule {
	return newIncludeRule("include-sort", includeorder.RuleSort,
		"Includes of the same kind are sorted by path")
}

func newIncludeRule(name string, kind includeorder.RuleID, description string) *IncludeRule {
	return &IncludeRule{
		BaseRule: BaseRule{
			RuleName:        name,
			RuleCategory:    linter.CategoryStyle,
			RuleSeverity:    linter.SeverityWarning,
			RuleDescription: description,
			AutoFixable:     true,
		},
		kind: kind,
	}
}

// Kind returns the validator diagnostic this rule surfaces
func (r *IncludeRule) Kind() includeorder.RuleID { return r.kind }

// Check converts the file's diagnostics of this rule's kind into violations
func (r *IncludeRule) Check(file *linter.SourceFile, ctx *linter.LintContext) ([]linter.Violation, error) {
	diags, err := ctx.Diagnostics()
	if err != nil {
		return nil, err
	}

	violations := make([]linter.Violation, 0)
	for _, d := range diags {
		if d.Rule != r.kind {
			continue
		}
		v := linter.Violation{
			Rule:     r.Name(),
			Severity: r.Severity(),
			Category: r.Category(),
			Message:  d.Message(),
			Template: d.Template,
			Args:     d.Args,
			Position: d.Location,
		}
		if r.CanAutoFix() {
			v.SuggestedFix = ctx.SuggestedFix()
		}
		violations = append(violations, v)
	}
	return violations, nil
}
