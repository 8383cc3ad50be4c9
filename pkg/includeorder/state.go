package includeorder

import (
	"fmt"
)

// State is the running validation state for one file's directive stream.
// The zero value is not usable; create one with NewState per file.
type State struct {
	file string
	opts Options

	history []Event

	// Tagged summary of the last accepted event, kept alongside history so
	// the rules never have to inspect the slice.
	lastLine   int
	lastSystem bool
	lastPath   string

	// localSeen is set once a local include that is not the exempt
	// associated header has been accepted.
	localSeen  bool
	associated bool
}

// NewState creates a fresh state for file
func NewState(file string, opts Options) *State {
	if opts.AssociatedHeader == "" {
		opts.AssociatedHeader = AssociatedHeaderFirst
	}
	return &State{
		file: file,
		opts: opts,
	}
}

// File returns the file this state validates
func (s *State) File() string { return s.file }

// Len returns the number of accepted events
func (s *State) Len() int { return len(s.history) }

// LastLine returns the line of the most recently accepted event
func (s *State) LastLine() (int, bool) {
	if len(s.history) == 0 {
		return 0, false
	}
	return s.lastLine, true
}

// History returns a copy of the accepted events in arrival order
func (s *State) History() []Event {
	out := make([]Event, len(s.history))
	copy(out, s.history)
	return out
}

// AssociatedHeader reports whether the first event was exempted as the
// file's associated header
func (s *State) AssociatedHeader() bool { return s.associated }

// Process validates ev against the state and advances it. Diagnostics are
// style violations; a non-nil error means the caller broke the line-order
// contract and the state was left untouched.
func (s *State) Process(ev Event) ([]Diagnostic, error) {
	if ev.Line < 1 {
		return nil, fmt.Errorf("%w: %s line %d", ErrInvalidLine, s.file, ev.Line)
	}

	if len(s.history) == 0 {
		s.trace(ev, ev.Line)
		s.seed(ev)
		return nil, nil
	}

	if ev.Line < s.lastLine {
		return nil, fmt.Errorf("%w: %s line %d after line %d", ErrNonMonotonic, s.file, ev.Line, s.lastLine)
	}

	s.trace(ev, s.expectedLine(ev))

	var diags []Diagnostic
	if d, ok := s.checkPosition(ev); ok {
		diags = append(diags, d)
	}
	if d, ok := s.checkPrecedence(ev); ok {
		diags = append(diags, d)
	}
	if d, ok := s.checkSort(ev); ok {
		diags = append(diags, d)
	}

	s.advance(ev)
	return diags, nil
}

func (s *State) seed(ev Event) {
	if !ev.System && s.exempt(ev) {
		s.associated = true
	} else if !ev.System {
		s.localSeen = true
	}
	s.accept(ev)
}

func (s *State) advance(ev Event) {
	if !ev.System {
		s.localSeen = true
	}
	s.accept(ev)
}

func (s *State) accept(ev Event) {
	s.history = append(s.history, ev)
	s.lastLine = ev.Line
	s.lastSystem = ev.System
	s.lastPath = ev.Path
}

func (s *State) exempt(ev Event) bool {
	switch s.opts.AssociatedHeader {
	case AssociatedHeaderNone:
		return false
	case AssociatedHeaderMatch:
		return IsAssociatedHeader(s.file, ev.Path)
	default:
		return true
	}
}

// expectedLine is where ev belongs given the previous event: the next line
// for the same kind, one further when the kind changes
func (s *State) expectedLine(ev Event) int {
	expected := s.lastLine + 1
	if ev.System != s.lastSystem {
		expected++
	}
	return expected
}

func (s *State) checkPosition(ev Event) (Diagnostic, bool) {
	expected := s.expectedLine(ev)
	if ev.Line == expected {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Rule:     RulePosition,
		Location: ev.Location,
		Template: PositionTemplate,
		Args:     []any{expected, ev.Line},
	}, true
}

func (s *State) checkPrecedence(ev Event) (Diagnostic, bool) {
	if !ev.System || !s.localSeen {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Rule:     RulePrecedence,
		Location: ev.Location,
		Template: PrecedenceTemplate,
	}, true
}

// checkSort compares raw bytes; Go string ordering is not locale aware.
func (s *State) checkSort(ev Event) (Diagnostic, bool) {
	if ev.System != s.lastSystem || s.lastPath <= ev.Path {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Rule:     RuleSort,
		Location: ev.Location,
		Template: SortTemplate,
	}, true
}

func (s *State) trace(ev Event, expected int) {
	if !s.opts.Debug || s.opts.Logger == nil {
		return
	}
	last, _ := s.LastLine()
	s.opts.Logger.WithFields(map[string]interface{}{
		"file":          s.file,
		"kind":          ev.Kind(),
		"path":          ev.Path,
		"line":          ev.Line,
		"last_line":     last,
		"expected_line": expected,
	}).Debug("include event")
}

// Check runs a complete event stream for file through a fresh state. On a
// contract error it returns the diagnostics gathered so far with the error.
func Check(file string, events []Event, opts Options) ([]Diagnostic, error) {
	state := NewState(file, opts)
	var diags []Diagnostic
	for _, ev := range events {
		d, err := state.Process(ev)
		if err != nil {
			return diags, err
		}
		diags = append(diags, d...)
	}
	return diags, nil
}
