// Package pattern compiles a set of glob exclusion patterns and answers
// whether a given relative path is excluded by any of them.
package pattern

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher holds a normalized set of glob patterns.
type Matcher struct {
	patterns []string
}

// Compile normalizes and wraps a set of glob patterns.
//
// A bare name with no path separator and no recursive prefix (for example
// "node_modules") is rewritten to "**/node_modules" so it matches at any
// depth, not only at the root. Empty and whitespace-only patterns are
// dropped. Pattern syntax is not validated; a malformed pattern simply
// never matches.
func Compile(patterns []string) *Matcher {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") && !strings.HasPrefix(p, "**/") {
			p = "**/" + p
		}
		normalized = append(normalized, p)
	}
	return &Matcher{patterns: normalized}
}

// Excluded reports whether path matches any of the compiled patterns.
// The path must be slash-separated and relative to the scanned root.
// Dotfiles are matched like any other name.
func (m *Matcher) Excluded(path string) bool {
	for _, p := range m.patterns {
		matched, err := doublestar.Match(p, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Patterns returns the normalized pattern set.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}
