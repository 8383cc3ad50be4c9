// Package scanner finds inclusion directives in C-family source text and
// turns them into the ordered event stream consumed by includeorder.
//
// Only directives written directly in the scanned file are reported; the
// scanner never opens included files or expands macros. Block and line
// comments are skipped, and backslash-continued lines are joined, with the
// directive positioned on the line of its '#'.
package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/platinummonkey/inclint/pkg/includeorder"
)

const maxLineSize = 4 * 1024 * 1024

// DefaultExtensions lists the file extensions scanned when none are configured
var DefaultExtensions = []string{
	".c", ".cc", ".cpp", ".cxx", ".c++",
	".h", ".hh", ".hpp", ".hxx", ".h++", ".inl",
	".m", ".mm",
}

// Directive is one inclusion directive found in a file
type Directive struct {
	Event includeorder.Event

	// Keyword is include, include_next or import
	Keyword string

	// Text holds the physical source lines of the directive, joined by '\n'
	Text    string
	EndLine int
}

// Skipped is a directive the scanner saw but could not classify, such as
// an include whose target is a macro
type Skipped struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Result is the outcome of scanning one file
type Result struct {
	File       string
	Directives []Directive
	Skipped    []Skipped
	Lines      int
}

// Events returns the directive stream in line order
func (r *Result) Events() []includeorder.Event {
	events := make([]includeorder.Event, len(r.Directives))
	for i, d := range r.Directives {
		events[i] = d.Event
	}
	return events
}

// ScanFile reads and scans the file at path
func ScanFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Scan(f, path)
}

// ScanBytes scans in-memory content attributed to file
func ScanBytes(content []byte, file string) (*Result, error) {
	return Scan(bytes.NewReader(content), file)
}

// Scan reads r to EOF and returns every inclusion directive in it
func Scan(r io.Reader, file string) (*Result, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)

	result := &Result{File: file}

	var (
		lineNo     int
		inComment  bool
		logical    strings.Builder
		physical   []string
		startLine  int
		continuing bool
	)

	for s.Scan() {
		lineNo++
		raw := strings.TrimSuffix(s.Text(), "\r")

		if !continuing {
			logical.Reset()
			physical = physical[:0]
			startLine = lineNo
		}
		physical = append(physical, raw)

		if strings.HasSuffix(raw, "\\") {
			logical.WriteString(raw[:len(raw)-1])
			continuing = true
			continue
		}
		logical.WriteString(raw)
		continuing = false

		code := stripComments(logical.String(), &inComment)
		result.inspect(code, strings.Join(physical, "\n"), startLine, lineNo)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", file, err)
	}

	if continuing {
		code := stripComments(logical.String(), &inComment)
		result.inspect(code, strings.Join(physical, "\n"), startLine, lineNo)
	}

	result.Lines = lineNo
	return result, nil
}

func (r *Result) inspect(code, text string, line, endLine int) {
	hash := strings.IndexFunc(code, func(c rune) bool { return c != ' ' && c != '\t' && c != '\f' && c != '\v' })
	if hash < 0 || code[hash] != '#' {
		return
	}

	rest := strings.TrimLeft(code[hash+1:], " \t")
	keyword := leadingIdent(rest)
	if !isInclusion(keyword) {
		return
	}

	arg := strings.TrimSpace(rest[len(keyword):])
	system, path, reason := parseTarget(arg)
	if reason != "" {
		r.Skipped = append(r.Skipped, Skipped{Line: line, Text: text, Reason: reason})
		return
	}

	r.Directives = append(r.Directives, Directive{
		Event: includeorder.Event{
			System: system,
			Path:   path,
			Line:   line,
			Location: includeorder.Location{
				File:   r.File,
				Line:   line,
				Column: hash + 1,
			},
		},
		Keyword: keyword,
		Text:    text,
		EndLine: endLine,
	})
}

func parseTarget(arg string) (system bool, path, reason string) {
	if arg == "" {
		return false, "", "missing include target"
	}
	var closer byte
	switch arg[0] {
	case '<':
		system, closer = true, '>'
	case '"':
		closer = '"'
	default:
		return false, "", "include target is not a literal"
	}
	end := strings.IndexByte(arg[1:], closer)
	if end < 0 {
		return false, "", "unterminated include target"
	}
	return system, arg[1 : 1+end], ""
}

func leadingIdent(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > 0 && c >= '0' && c <= '9') {
			return s[:i]
		}
	}
	return s
}

// stripComments blanks out comment bytes in line, keeping offsets stable.
// inComment carries an open block comment across lines. The <...> target of
// an inclusion directive is a header name, so comment markers inside it are
// kept.
func stripComments(line string, inComment *bool) string {
	out := []byte(line)
	var quote byte
	leading, header := true, false
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case *inComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				i++
				*inComment = false
				continue
			}
			out[i] = ' '
		case quote != 0:
			if c == '\\' && quote != '>' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for j := i; j < len(out); j++ {
				out[j] = ' '
			}
			return string(out)
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i++
			*inComment = true
		case c == ' ' || c == '\t' || c == '\f' || c == '\v':
		case leading && c == '#':
			leading = false
			header = isInclusion(leadingIdent(strings.TrimLeft(string(out[i+1:]), " \t")))
		case header && c == '<':
			header = false
			quote = '>'
		case c == '"' || c == '\'':
			header = false
			quote = c
		default:
			leading = false
		}
	}
	return string(out)
}

func isInclusion(keyword string) bool {
	switch keyword {
	case "include", "include_next", "import":
		return true
	}
	return false
}

// IsSource reports whether path has one of exts, or one of
// DefaultExtensions when exts is empty
func IsSource(path string, exts []string) bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
