package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/inclint/pkg/includeorder"
	"github.com/platinummonkey/inclint/pkg/linter"
	"github.com/platinummonkey/inclint/pkg/scanner"
)

func newContext(t *testing.T, path, src string) (*linter.SourceFile, *linter.LintContext) {
	t.Helper()
	scan, err := scanner.ScanBytes([]byte(src), path)
	require.NoError(t, err)
	file := &linter.SourceFile{Path: path, Content: []byte(src), Scan: scan}
	return file, linter.NewLintContext(file, linter.DefaultConfig(), nil)
}

func TestIncludeRules_Metadata(t *testing.T) {
	tests := []struct {
		rule *IncludeRule
		name string
		kind includeorder.RuleID
	}{
		{NewIncludePositionRule(), "include-position", includeorder.RulePosition},
		{NewIncludePrecedenceRule(), "include-precedence", includeorder.RulePrecedence},
		{NewIncludeSortRule(), "include-sort", includeorder.RuleSort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.rule.Name())
			assert.Equal(t, tt.kind, tt.rule.Kind())
			assert.Equal(t, linter.CategoryStyle, tt.rule.Category())
			assert.Equal(t, linter.SeverityWarning, tt.rule.Severity())
			assert.True(t, tt.rule.CanAutoFix())
			assert.NotEmpty(t, tt.rule.Description())
		})
	}
}

func TestIncludeRules_Check(t *testing.T) {
	src := "#include \"b.h\"\n" +
		"#include \"a.h\"\n" +
		"#include <vector>\n"

	tests := []struct {
		name  string
		rule  *IncludeRule
		lines []int
	}{
		// a.h follows b.h and <vector> sits right after a local.
		{"position", NewIncludePositionRule(), []int{3}},
		{"precedence", NewIncludePrecedenceRule(), []int{3}},
		{"sort", NewIncludeSortRule(), []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, ctx := newContext(t, "x.cc", src)
			violations, err := tt.rule.Check(file, ctx)
			require.NoError(t, err)

			var lines []int
			for _, v := range violations {
				assert.Equal(t, tt.rule.Name(), v.Rule)
				assert.Equal(t, linter.SeverityWarning, v.Severity)
				assert.Equal(t, "x.cc", v.Position.File)
				assert.NotEmpty(t, v.Message)
				assert.NotNil(t, v.SuggestedFix)
				lines = append(lines, v.Position.Line)
			}
			assert.Equal(t, tt.lines, lines)
		})
	}
}

func TestIncludeRule_PositionArgs(t *testing.T) {
	src := "#include <a.h>\n" +
		"\n" +
		"#include <b.h>\n"

	file, ctx := newContext(t, "x.cc", src)
	violations, err := NewIncludePositionRule().Check(file, ctx)
	require.NoError(t, err)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, includeorder.PositionTemplate, v.Template)
	assert.Equal(t, []any{2, 3}, v.Args)
	assert.Contains(t, v.Message, "expected at line 2, found at line 3")
}

func TestIncludeRules_CleanFile(t *testing.T) {
	src := "#include \"x.h\"\n" +
		"\n" +
		"#include <map>\n" +
		"#include <vector>\n" +
		"\n" +
		"#include \"util/a.h\"\n" +
		"#include \"util/b.h\"\n"

	for _, rule := range DefaultRules() {
		file, ctx := newContext(t, "x.cc", src)
		violations, err := rule.Check(file, ctx)
		require.NoError(t, err)
		assert.Empty(t, violations, rule.Name())
	}
}

func TestBaseRule_AutoFix(t *testing.T) {
	rule := NewIncludeSortRule()
	fix := &linter.Fix{Description: "rewrite"}

	got, err := rule.AutoFix(nil, linter.Violation{SuggestedFix: fix})
	require.NoError(t, err)
	assert.Same(t, fix, got)

	_, err = rule.AutoFix(nil, linter.Violation{})
	assert.ErrorIs(t, err, linter.ErrNotFixable)
}

type recordingRegistry struct {
	names []string
}

func (r *recordingRegistry) Register(rule linter.Rule) {
	r.names = append(r.names, rule.Name())
}

func TestRegisterDefaultRules(t *testing.T) {
	reg := &recordingRegistry{}
	RegisterDefaultRules(reg)
	assert.Equal(t, []string{"include-position", "include-precedence", "include-sort"}, reg.names)

	registry := linter.NewRuleRegistry()
	RegisterDefaultRules(registry)
	assert.Len(t, registry.GetAllRules(), 3)
	assert.Len(t, registry.GetRulesByCategory(linter.CategoryStyle), 3)
}
