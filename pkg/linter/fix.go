package linter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/platinummonkey/inclint/pkg/includeorder"
	"github.com/platinummonkey/inclint/pkg/scanner"
)

// FixIncludes computes the canonical layout of file's include block: the
// associated header, then sorted system includes, then sorted local
// includes, with one blank line between non-empty groups. It returns nil
// when the block is already canonical, and ErrNotFixable when anything
// other than includes and blank lines sits inside the block.
func FixIncludes(file *SourceFile, mode includeorder.AssociatedHeaderMode) (*Fix, error) {
	if file == nil || file.Scan == nil || len(file.Scan.Directives) == 0 {
		return nil, nil
	}
	dirs := file.Scan.Directives
	start := dirs[0].Event.Line
	end := dirs[len(dirs)-1].EndLine

	lines := splitLines(file.Content)
	if end > len(lines) {
		return nil, fmt.Errorf("%w: block ends past end of file", ErrNotFixable)
	}
	if err := checkContiguous(dirs, lines, start, end); err != nil {
		return nil, err
	}

	var (
		assoc  []scanner.Directive
		system []scanner.Directive
		local  []scanner.Directive
	)
	assocIdx := associatedIndex(file.Path, dirs, mode)
	for i, d := range dirs {
		switch {
		case i == assocIdx:
			assoc = append(assoc, d)
		case d.Event.System:
			system = append(system, d)
		default:
			local = append(local, d)
		}
	}
	if len(system) == 0 {
		// Without a system group the associated header is just another local.
		local = append(local, assoc...)
		assoc = nil
	}
	sortByPath(system)
	sortByPath(local)

	var (
		newLines []string
		events   []includeorder.Event
	)
	line := start
	for _, group := range [][]scanner.Directive{assoc, system, local} {
		if len(group) == 0 {
			continue
		}
		if len(newLines) > 0 {
			newLines = append(newLines, "")
			line++
		}
		for _, d := range group {
			newLines = append(newLines, singleLine(d))
			events = append(events, includeorder.Event{System: d.Event.System, Path: d.Event.Path, Line: line})
			line++
		}
	}

	oldText := strings.Join(lines[start-1:end], "\n")
	newText := strings.Join(newLines, "\n")
	if oldText == newText {
		return nil, nil
	}

	diags, err := includeorder.Check(file.Path, events, includeorder.Options{AssociatedHeader: mode})
	if err != nil || len(diags) > 0 {
		return nil, fmt.Errorf("%w: rewritten block still violates ordering", ErrNotFixable)
	}

	return &Fix{
		Description: "Rewrite include block in canonical order",
		Changes: []Change{{
			FilePath:  file.Path,
			StartLine: start,
			EndLine:   end,
			OldText:   oldText,
			NewText:   newText,
		}},
	}, nil
}

// ApplyFix applies fix to content. Changes must describe the content as it
// is; a mismatch means the file changed since it was linted.
func ApplyFix(content []byte, fix *Fix) ([]byte, error) {
	if fix == nil || len(fix.Changes) == 0 {
		return content, nil
	}

	crlf := bytes.Contains(content, []byte("\r\n"))
	raw := strings.Split(string(content), "\n")
	plain := splitLines(content)

	changes := make([]Change, len(fix.Changes))
	copy(changes, fix.Changes)
	sort.Slice(changes, func(i, j int) bool { return changes[i].StartLine > changes[j].StartLine })

	for _, ch := range changes {
		if ch.StartLine < 1 || ch.EndLine < ch.StartLine || ch.EndLine > len(plain) {
			return nil, fmt.Errorf("change %d-%d out of range", ch.StartLine, ch.EndLine)
		}
		if strings.Join(plain[ch.StartLine-1:ch.EndLine], "\n") != ch.OldText {
			return nil, fmt.Errorf("content at lines %d-%d changed since lint", ch.StartLine, ch.EndLine)
		}

		replacement := strings.Split(ch.NewText, "\n")
		if crlf {
			for i := range replacement {
				replacement[i] += "\r"
			}
		}

		updated := make([]string, 0, len(raw)-(ch.EndLine-ch.StartLine+1)+len(replacement))
		updated = append(updated, raw[:ch.StartLine-1]...)
		updated = append(updated, replacement...)
		updated = append(updated, raw[ch.EndLine:]...)
		raw = updated

		updatedPlain := make([]string, 0, len(raw))
		updatedPlain = append(updatedPlain, plain[:ch.StartLine-1]...)
		updatedPlain = append(updatedPlain, strings.Split(ch.NewText, "\n")...)
		updatedPlain = append(updatedPlain, plain[ch.EndLine:]...)
		plain = updatedPlain
	}

	return []byte(strings.Join(raw, "\n")), nil
}

func checkContiguous(dirs []scanner.Directive, lines []string, start, end int) error {
	covered := make(map[int]bool, end-start+1)
	for _, d := range dirs {
		for l := d.Event.Line; l <= d.EndLine; l++ {
			covered[l] = true
		}
	}
	for l := start; l <= end; l++ {
		if covered[l] || strings.TrimSpace(lines[l-1]) == "" {
			continue
		}
		return fmt.Errorf("%w: line %d is not an include", ErrNotFixable, l)
	}
	return nil
}

func associatedIndex(file string, dirs []scanner.Directive, mode includeorder.AssociatedHeaderMode) int {
	switch mode {
	case includeorder.AssociatedHeaderNone:
		return -1
	case includeorder.AssociatedHeaderMatch:
		for i, d := range dirs {
			if !d.Event.System && includeorder.IsAssociatedHeader(file, d.Event.Path) {
				return i
			}
		}
		return -1
	default:
		if !dirs[0].Event.System {
			return 0
		}
		return -1
	}
}

func sortByPath(dirs []scanner.Directive) {
	sort.SliceStable(dirs, func(i, j int) bool { return dirs[i].Event.Path < dirs[j].Event.Path })
}

// singleLine returns d as one physical line, collapsing continuations
func singleLine(d scanner.Directive) string {
	if d.EndLine == d.Event.Line {
		return d.Text
	}
	if d.Event.System {
		return "#" + d.Keyword + " <" + d.Event.Path + ">"
	}
	return "#" + d.Keyword + " \"" + d.Event.Path + "\""
}

// splitLines splits content into lines without trailing carriage returns
func splitLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
