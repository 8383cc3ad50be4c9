package linter

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/platinummonkey/inclint/pkg/scanner"
)

// FindSources walks dir and returns the C-family sources config selects,
// sorted. Hidden, vendor and third_party directories are always skipped.
func FindSources(dir string, config *Config) ([]string, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}

		if d.IsDir() {
			if path == dir {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "third_party" || config.Ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if scanner.IsSource(path, config.Lint.Extensions) && !config.Ignored(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ExpandPaths turns a mix of files and directories into a sorted, de-duplicated
// list of sources. Files named explicitly are kept even if they would be
// ignored by a directory walk.
func ExpandPaths(paths []string, config *Config) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
			continue
		}
		found, err := FindSources(p, config)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
