package linter

import (
	"sync"

	"github.com/platinummonkey/inclint/pkg/includeorder"
	"github.com/platinummonkey/inclint/pkg/observability"
	"github.com/platinummonkey/inclint/pkg/scanner"
)

// SourceFile is a scanned file handed to rules
type SourceFile struct {
	Path    string
	Content []byte
	Scan    *scanner.Result
}

// LintContext provides context during rule checking. One context is created
// per file; it runs the include validator once and shares the outcome with
// every rule.
type LintContext struct {
	FilePath string
	File     *SourceFile
	Config   *Config
	Logger   *observability.Logger

	diagOnce sync.Once
	diags    []includeorder.Diagnostic
	diagErr  error

	fixOnce sync.Once
	fix     *Fix
	fixErr  error
}

// NewLintContext creates the context for file
func NewLintContext(file *SourceFile, config *Config, logger *observability.Logger) *LintContext {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &LintContext{
		FilePath: file.Path,
		File:     file,
		Config:   config,
		Logger:   logger,
	}
}

// Diagnostics returns the include-order diagnostics for the file
func (c *LintContext) Diagnostics() ([]includeorder.Diagnostic, error) {
	c.diagOnce.Do(func() {
		opts := includeorder.Options{
			AssociatedHeader: c.Config.AssociatedHeaderMode(),
			Debug:            c.Config.Debug,
			Logger:           c.Logger,
		}
		c.diags, c.diagErr = includeorder.Check(c.FilePath, c.File.Scan.Events(), opts)
	})
	return c.diags, c.diagErr
}

// SuggestedFix returns the canonical rewrite of the file's include block,
// or nil when the block is already canonical or cannot be rewritten
func (c *LintContext) SuggestedFix() *Fix {
	c.fixOnce.Do(func() {
		c.fix, c.fixErr = FixIncludes(c.File, c.Config.AssociatedHeaderMode())
		if c.fixErr != nil {
			c.Logger.WithError(c.fixErr).WithField("file", c.FilePath).Debug("no automatic fix")
		}
	})
	return c.fix
}
