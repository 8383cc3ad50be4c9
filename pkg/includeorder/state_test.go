package includeorder

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/platinummonkey/inclint/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sys(path string, line int) Event {
	return Event{System: true, Path: path, Line: line, Location: Location{File: "test.cc", Line: line, Column: 1}}
}

func loc(path string, line int) Event {
	return Event{System: false, Path: path, Line: line, Location: Location{File: "test.cc", Line: line, Column: 1}}
}

func rulesOf(diags []Diagnostic) []RuleID {
	out := make([]RuleID, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Rule)
	}
	return out
}

func TestCheck_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		events   []Event
		expected []RuleID
	}{
		{
			name:     "grouped separated and sorted",
			events:   []Event{sys("a.h", 1), sys("b.h", 2), loc("x.h", 4), loc("y.h", 5)},
			expected: []RuleID{},
		},
		{
			name:     "gap between same kind",
			events:   []Event{sys("a.h", 1), sys("b.h", 3)},
			expected: []RuleID{RulePosition},
		},
		{
			name:     "missing blank line at kind change",
			events:   []Event{sys("a.h", 1), loc("x.h", 2)},
			expected: []RuleID{RulePosition},
		},
		{
			name:     "unsorted system includes",
			events:   []Event{sys("b.h", 1), sys("a.h", 2)},
			expected: []RuleID{RuleSort},
		},
		{
			name:     "system after locals",
			events:   []Event{loc("x.h", 1), loc("y.h", 2), sys("a.h", 4)},
			expected: []RuleID{RulePrecedence},
		},
		{
			name:     "associated header first",
			events:   []Event{loc("widget.h", 1), sys("map", 3), sys("vector", 4), loc("util.h", 6)},
			expected: []RuleID{},
		},
		{
			name:     "wrong line and wrong order on one event",
			events:   []Event{sys("b.h", 1), sys("a.h", 3)},
			expected: []RuleID{RulePosition, RuleSort},
		},
		{
			name:     "system after local after system",
			events:   []Event{sys("a.h", 1), loc("x.h", 3), sys("b.h", 5)},
			expected: []RuleID{RulePrecedence},
		},
		{
			name:     "duplicate path is not unsorted",
			events:   []Event{loc("x.h", 1), loc("x.h", 2)},
			expected: []RuleID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, err := Check("test.cc", tt.events, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rulesOf(diags))
		})
	}
}

func TestProcess_PositionArguments(t *testing.T) {
	t.Run("same kind", func(t *testing.T) {
		diags, err := Check("test.cc", []Event{sys("a.h", 1), sys("b.h", 3)}, Options{})
		require.NoError(t, err)
		require.Len(t, diags, 1)

		expected, found, ok := diags[0].Expected()
		require.True(t, ok)
		assert.Equal(t, 2, expected)
		assert.Equal(t, 3, found)
		assert.Equal(t,
			"expected at line 2, found at line 3; global/system and local includes must be separated by exactly one blank line, and includes of the same kind must have none",
			diags[0].Message())
	})

	t.Run("kind change", func(t *testing.T) {
		diags, err := Check("test.cc", []Event{sys("a.h", 1), loc("x.h", 2)}, Options{})
		require.NoError(t, err)
		require.Len(t, diags, 1)

		expected, found, ok := diags[0].Expected()
		require.True(t, ok)
		assert.Equal(t, 3, expected)
		assert.Equal(t, 2, found)
	})

	t.Run("too many blank lines at kind change", func(t *testing.T) {
		diags, err := Check("test.cc", []Event{sys("a.h", 1), loc("x.h", 5)}, Options{})
		require.NoError(t, err)
		require.Len(t, diags, 1)

		expected, _, _ := diags[0].Expected()
		assert.Equal(t, 3, expected)
	})
}

func TestProcess_DiagnosticLocation(t *testing.T) {
	ev := sys("a.h", 2)
	ev.Location = Location{File: "other.cc", Line: 2, Column: 3}

	diags, err := Check("test.cc", []Event{sys("b.h", 1), ev}, Options{})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, ev.Location, diags[0].Location)
	assert.Empty(t, diags[0].Args)
}

func TestProcess_FirstEventNeverDiagnosed(t *testing.T) {
	for _, ev := range []Event{sys("z.h", 1), loc("z.h", 1), sys("a.h", 40), loc("a.h", 900)} {
		state := NewState("test.cc", Options{AssociatedHeader: AssociatedHeaderNone})
		diags, err := state.Process(ev)
		require.NoError(t, err)
		assert.Empty(t, diags)

		line, ok := state.LastLine()
		assert.True(t, ok)
		assert.Equal(t, ev.Line, line)
	}
}

func TestProcess_StateAdvancesAfterViolation(t *testing.T) {
	state := NewState("test.cc", Options{})

	_, err := state.Process(sys("a.h", 1))
	require.NoError(t, err)

	diags, err := state.Process(sys("b.h", 5))
	require.NoError(t, err)
	assert.Equal(t, []RuleID{RulePosition}, rulesOf(diags))

	// Next line after the misplaced include is fine: no cascade.
	diags, err = state.Process(sys("c.h", 6))
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, 3, state.Len())
	line, _ := state.LastLine()
	assert.Equal(t, 6, line)

	history := state.History()
	require.Len(t, history, 3)
	assert.Equal(t, []string{"a.h", "b.h", "c.h"}, []string{history[0].Path, history[1].Path, history[2].Path})
}

func TestProcess_PrecedenceAfterLocalPersists(t *testing.T) {
	events := []Event{sys("a.h", 1), loc("x.h", 3), sys("b.h", 5), sys("c.h", 6)}
	diags, err := Check("test.cc", events, Options{})
	require.NoError(t, err)

	var precedenceLines []int
	for _, d := range diags {
		if d.Rule == RulePrecedence {
			precedenceLines = append(precedenceLines, d.Location.Line)
		}
	}
	assert.Equal(t, []int{5, 6}, precedenceLines)
}

func TestProcess_SortRun(t *testing.T) {
	paths := []string{"a.h", "b/c.h", "b/d.h", "c.h", "c.h", "z.h"}
	events := make([]Event, 0, len(paths))
	for i, p := range paths {
		events = append(events, loc(p, i+1))
	}

	diags, err := Check("test.cc", events, Options{})
	require.NoError(t, err)
	assert.Empty(t, diags)

	// Swap one adjacent pair.
	events[2].Path, events[3].Path = events[3].Path, events[2].Path
	diags, err = Check("test.cc", events, Options{})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, RuleSort, diags[0].Rule)
	assert.Equal(t, 4, diags[0].Location.Line)
}

func TestProcess_SortIsByteWise(t *testing.T) {
	// Upper case sorts before lower case.
	diags, err := Check("test.cc", []Event{sys("Zlib.h", 1), sys("alpha.h", 2)}, Options{})
	require.NoError(t, err)
	assert.Empty(t, diags)

	diags, err = Check("test.cc", []Event{sys("alpha.h", 1), sys("Zlib.h", 2)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []RuleID{RuleSort}, rulesOf(diags))
}

func TestProcess_AssociatedHeaderModes(t *testing.T) {
	tests := []struct {
		name       string
		mode       AssociatedHeaderMode
		first      string
		associated bool
		expected   []RuleID
	}{
		{"first exempts any local", AssociatedHeaderFirst, "other.h", true, []RuleID{}},
		{"match exempts matching header", AssociatedHeaderMatch, "widget.h", true, []RuleID{}},
		{"match exempts nested matching header", AssociatedHeaderMatch, "ui/widget.hpp", true, []RuleID{}},
		{"match rejects other header", AssociatedHeaderMatch, "other.h", false, []RuleID{RulePrecedence}},
		{"none exempts nothing", AssociatedHeaderNone, "widget.h", false, []RuleID{RulePrecedence}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState("src/widget.cc", Options{AssociatedHeader: tt.mode})
			assert.Equal(t, "src/widget.cc", state.File())

			diags, err := state.Process(loc(tt.first, 1))
			require.NoError(t, err)
			assert.Empty(t, diags)
			assert.Equal(t, tt.associated, state.AssociatedHeader())

			diags, err = state.Process(sys("vector", 3))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rulesOf(diags))
		})
	}

	t.Run("system first is never associated", func(t *testing.T) {
		state := NewState("src/widget.cc", Options{})
		_, err := state.Process(sys("vector", 1))
		require.NoError(t, err)
		assert.False(t, state.AssociatedHeader())
	})
}

func TestProcess_ContractErrors(t *testing.T) {
	t.Run("decreasing line", func(t *testing.T) {
		state := NewState("test.cc", Options{})
		_, err := state.Process(sys("a.h", 4))
		require.NoError(t, err)

		_, err = state.Process(sys("b.h", 2))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNonMonotonic))
		assert.Equal(t, 1, state.Len())
		line, _ := state.LastLine()
		assert.Equal(t, 4, line)
	})

	t.Run("equal line is accepted", func(t *testing.T) {
		diags, err := Check("test.cc", []Event{sys("a.h", 4), sys("b.h", 4)}, Options{})
		require.NoError(t, err)
		assert.Equal(t, []RuleID{RulePosition}, rulesOf(diags))
	})

	t.Run("line zero", func(t *testing.T) {
		_, err := NewState("test.cc", Options{}).Process(sys("a.h", 0))
		assert.True(t, errors.Is(err, ErrInvalidLine))
	})

	t.Run("check returns partial diagnostics", func(t *testing.T) {
		diags, err := Check("test.cc", []Event{sys("b.h", 1), sys("a.h", 2), sys("c.h", 1)}, Options{})
		assert.True(t, errors.Is(err, ErrNonMonotonic))
		assert.Equal(t, []RuleID{RuleSort}, rulesOf(diags))
	})
}

func TestRules_SyntheticState(t *testing.T) {
	state := &State{
		file:       "test.cc",
		opts:       Options{AssociatedHeader: AssociatedHeaderFirst},
		history:    []Event{sys("a.h", 1), loc("m.h", 10)},
		lastLine:   10,
		lastSystem: false,
		lastPath:   "m.h",
		localSeen:  true,
	}

	_, ok := state.checkPosition(loc("n.h", 11))
	assert.False(t, ok)
	d, ok := state.checkPosition(sys("n.h", 11))
	assert.True(t, ok)
	assert.Equal(t, []any{12, 11}, d.Args)

	_, ok = state.checkPrecedence(sys("b.h", 12))
	assert.True(t, ok)
	_, ok = state.checkPrecedence(loc("b.h", 12))
	assert.False(t, ok)

	_, ok = state.checkSort(loc("b.h", 11))
	assert.True(t, ok)
	_, ok = state.checkSort(sys("b.h", 12))
	assert.False(t, ok)

	state.localSeen = false
	_, ok = state.checkPrecedence(sys("b.h", 12))
	assert.False(t, ok)
}

func TestProcess_DebugTracing(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.DebugLevel, &buf)

	events := []Event{sys("a.h", 1), loc("x.h", 2)}
	traced, err := Check("test.cc", events, Options{Debug: true, Logger: logger})
	require.NoError(t, err)

	untraced, err := Check("test.cc", events, Options{})
	require.NoError(t, err)
	assert.Equal(t, untraced, traced)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "include event", entry["msg"])
	assert.EqualValues(t, 2, entry["line"])
	assert.EqualValues(t, 1, entry["last_line"])
	assert.EqualValues(t, 3, entry["expected_line"])
}

func TestIsAssociatedHeader(t *testing.T) {
	assert.True(t, IsAssociatedHeader("src/widget.cc", "widget.h"))
	assert.True(t, IsAssociatedHeader("widget.cpp", "include/widget.hpp"))
	assert.True(t, IsAssociatedHeader("foo.pb.cc", "foo.pb.h"))
	assert.False(t, IsAssociatedHeader("widget.cc", "widgets.h"))
	assert.False(t, IsAssociatedHeader("", "widget.h"))
}

func TestParseAssociatedHeaderMode(t *testing.T) {
	mode, err := ParseAssociatedHeaderMode("")
	require.NoError(t, err)
	assert.Equal(t, AssociatedHeaderFirst, mode)

	mode, err = ParseAssociatedHeaderMode(" Match ")
	require.NoError(t, err)
	assert.Equal(t, AssociatedHeaderMatch, mode)

	_, err = ParseAssociatedHeaderMode("sometimes")
	assert.Error(t, err)
}
