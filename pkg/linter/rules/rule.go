package rules

import (
	"github.com/platinummonkey/inclint/pkg/linter"
)

// BaseRule provides common functionality for rules
type BaseRule struct {
	RuleName        string
	RuleCategory    linter.Category
	RuleSeverity    linter.Severity
	RuleDescription string
	AutoFixable     bool
}

func (r *BaseRule) Name() string              { return r.RuleName }
func (r *BaseRule) Category() linter.Category { return r.RuleCategory }
func (r *BaseRule) Severity() linter.Severity { return r.RuleSeverity }
func (r *BaseRule) Description() string       { return r.RuleDescription }
func (r *BaseRule) CanAutoFix() bool          { return r.AutoFixable }

// AutoFix returns the fix attached to the violation, if any
func (r *BaseRule) AutoFix(file *linter.SourceFile, violation linter.Violation) (*linter.Fix, error) {
	if !r.AutoFixable || violation.SuggestedFix == nil {
		return nil, linter.ErrNotFixable
	}
	return violation.SuggestedFix, nil
}
