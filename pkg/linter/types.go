package linter

import (
	"errors"

	"github.com/platinummonkey/inclint/pkg/includeorder"
	"github.com/platinummonkey/inclint/pkg/scanner"
)

// ErrNotFixable is returned when an include block cannot be rewritten
// automatically, e.g. because code or conditionals sit between directives
var ErrNotFixable = errors.New("include block is not automatically fixable")

// Severity indicates how serious a violation is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Category groups related rules
type Category string

const (
	CategoryStyle Category = "style"
)

// Position locates a violation in a file
type Position = includeorder.Location

// Violation represents a linting violation
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Template string   `json:"template"`
	Args     []any    `json:"args,omitempty"`
	Position Position `json:"position"`

	SuggestedFix *Fix `json:"suggested_fix,omitempty"`
}

// Fix represents an automatic fix
type Fix struct {
	Description string   `json:"description"`
	Changes     []Change `json:"changes"`
}

// Change replaces the inclusive line range [StartLine, EndLine] of a file
type Change struct {
	FilePath  string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	OldText   string `json:"old_text"`
	NewText   string `json:"new_text"`
}

// LintResult contains the result of linting a single file
type LintResult struct {
	FilePath   string            `json:"file"`
	Includes   int               `json:"includes"`
	Violations []Violation       `json:"violations"`
	Skipped    []scanner.Skipped `json:"skipped,omitempty"`
	Fixed      bool              `json:"fixed,omitempty"`

	// Error is set when the file could not be linted
	Error string `json:"error,omitempty"`
}

// Summary provides an overview of all lint results
type Summary struct {
	TotalFiles          int `json:"total_files"`
	FilesWithViolations int `json:"files_with_violations"`
	TotalViolations     int `json:"total_violations"`
	Errors              int `json:"errors"`
	Warnings            int `json:"warnings"`
	Infos               int `json:"infos"`
	Fixed               int `json:"fixed"`
	Failed              int `json:"failed"`
}
