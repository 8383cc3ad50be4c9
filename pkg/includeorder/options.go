package includeorder

import (
	"fmt"
	"path"
	"strings"

	"github.com/platinummonkey/inclint/pkg/observability"
)

// AssociatedHeaderMode controls which leading local include is exempt from
// the precedence rule
type AssociatedHeaderMode string

const (
	// AssociatedHeaderFirst exempts the first include of a file when it is local
	AssociatedHeaderFirst AssociatedHeaderMode = "first"
	// AssociatedHeaderMatch exempts the first include only when its base name
	// matches the checked file's base name, ignoring extensions
	AssociatedHeaderMatch AssociatedHeaderMode = "match"
	// AssociatedHeaderNone exempts nothing
	AssociatedHeaderNone AssociatedHeaderMode = "none"
)

// ParseAssociatedHeaderMode parses a mode name. Empty selects the default.
func ParseAssociatedHeaderMode(s string) (AssociatedHeaderMode, error) {
	switch m := AssociatedHeaderMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return AssociatedHeaderFirst, nil
	case AssociatedHeaderFirst, AssociatedHeaderMatch, AssociatedHeaderNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown associated header mode %q", s)
	}
}

// Options configures a State
type Options struct {
	AssociatedHeader AssociatedHeaderMode

	// Debug traces every processed event through Logger. It never changes
	// which diagnostics are produced.
	Debug  bool
	Logger *observability.Logger
}

// IsAssociatedHeader reports whether include names the header paired with
// file, e.g. "widget.h" or "ui/widget.hpp" for "src/widget.cc"
func IsAssociatedHeader(file, include string) bool {
	fileStem := stem(file)
	return fileStem != "" && fileStem == stem(include)
}

func stem(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
