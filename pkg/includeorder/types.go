package includeorder

import (
	"errors"
	"fmt"
)

var (
	// ErrNonMonotonic is returned when an event arrives with a line lower
	// than the previously accepted event
	ErrNonMonotonic = errors.New("include events out of line order")

	// ErrInvalidLine is returned for events with a line below 1
	ErrInvalidLine = errors.New("invalid include line")
)

// RuleID identifies which ordering rule produced a diagnostic
type RuleID string

const (
	RulePosition   RuleID = "position"
	RulePrecedence RuleID = "precedence"
	RuleSort       RuleID = "sort"
)

// Message templates, one per rule
const (
	PositionTemplate   = "expected at line %d, found at line %d; global/system and local includes must be separated by exactly one blank line, and includes of the same kind must have none"
	PrecedenceTemplate = "all system-style inclusions must precede any local-style inclusion"
	SortTemplate       = "inclusions of the same kind must be sorted lexicographically ascending by path"
)

// Location positions a diagnostic. The validator carries it through untouched.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Event is one inclusion directive as delivered by the directive feed
type Event struct {
	System   bool
	Path     string
	Line     int
	Location Location
}

// Kind returns "system" or "local"
func (e Event) Kind() string {
	if e.System {
		return "system"
	}
	return "local"
}

// Diagnostic is a single ordering violation
type Diagnostic struct {
	Rule     RuleID
	Location Location
	Template string
	Args     []any
}

// Message renders the template with its arguments
func (d Diagnostic) Message() string {
	if len(d.Args) == 0 {
		return d.Template
	}
	return fmt.Sprintf(d.Template, d.Args...)
}

// Expected returns the expected and found lines of a position diagnostic
func (d Diagnostic) Expected() (expected, found int, ok bool) {
	if d.Rule != RulePosition || len(d.Args) != 2 {
		return 0, 0, false
	}
	expected, ok1 := d.Args[0].(int)
	found, ok2 := d.Args[1].(int)
	return expected, found, ok1 && ok2
}
