// Package glob matches root-relative paths against the include, exclude and
// sort-order pattern lists carried by configured roots.
//
// Patterns use doublestar syntax. A pattern that is not already rooted is
// prefixed with "**/" so that "*.md" or "node_modules" match at any depth.
package glob

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchAll is the normalized form of the default include pattern.
const MatchAll = "**/*"

// Normalize trims, roots and validates a list of raw patterns. Invalid
// patterns are dropped.
func Normalize(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		n := normalize(p)
		if n == "" || !doublestar.ValidatePattern(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func normalize(p string) string {
	p = strings.TrimSpace(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	switch {
	case p == "":
		return ""
	case p == "*" || p == "**":
		return MatchAll
	case strings.HasPrefix(p, "**/"):
		return p
	case strings.HasPrefix(p, "/"):
		// Leading slash anchors the pattern at the root.
		return strings.TrimPrefix(p, "/")
	default:
		return "**/" + p
	}
}

// Matcher decides whether a path relative to its root is visible.
type Matcher struct {
	include  []string
	exclude  []string
	matchAll bool
}

// New builds a matcher from already-normalized pattern lists. An empty include
// list matches everything.
func New(include, exclude []string) *Matcher {
	m := &Matcher{include: include, exclude: exclude}
	m.matchAll = len(include) == 0
	for _, p := range include {
		if p == MatchAll || p == "**" {
			m.matchAll = true
			break
		}
	}
	return m
}

// Filtered reports whether the matcher can hide anything at all.
func (m *Matcher) Filtered() bool {
	return !m.matchAll || len(m.exclude) > 0
}

// Included reports whether rel matches at least one include pattern.
func (m *Matcher) Included(rel string) bool {
	if m.matchAll {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, p := range m.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Excluded reports whether rel, or any directory above it, matches an
// exclude pattern. Excluding a directory excludes everything beneath it.
func (m *Matcher) Excluded(rel string) bool {
	if len(m.exclude) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	for {
		for _, p := range m.exclude {
			if ok, _ := doublestar.Match(p, rel); ok {
				return true
			}
		}
		i := strings.LastIndexByte(rel, '/')
		if i < 0 {
			return false
		}
		rel = rel[:i]
	}
}

// MatchFile reports whether a file at rel should be shown.
func (m *Matcher) MatchFile(rel string) bool {
	return m.Included(rel) && !m.Excluded(rel)
}

// Rank returns the index of the first pattern name matches, comparing
// case-insensitively. Names matching nothing rank len(patterns).
func Rank(name string, patterns []string) int {
	lower := strings.ToLower(filepath.ToSlash(name))
	for i, p := range patterns {
		if ok, _ := doublestar.Match(strings.ToLower(p), lower); ok {
			return i
		}
	}
	return len(patterns)
}
