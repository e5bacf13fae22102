// Package exclusion evaluates file names against user-defined exclusion
// patterns.
//
// A pattern is interpreted as one of three kinds:
//   - a glob, if it contains a "*" or "?" wildcard
//   - a dotted suffix, if it starts with "." and has no wildcard
//   - a literal file name otherwise
//
// All matching is case-insensitive, and any single matching pattern
// excludes the file; patterns carry no priority among themselves.
//
// Example usage:
//
//	m, err := exclusion.Compile([]string{".tmp", "*.partial", "desktop.ini"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m.Excluded("Report.TMP") // true
package exclusion

import (
	"fmt"
	"path"
	"strings"
)

// Matcher reports whether a file name is excluded from organizing.
type Matcher interface {
	// Excluded returns true if any pattern matches the file name.
	Excluded(fileName string) bool

	// Patterns returns the raw patterns the matcher was compiled from.
	Patterns() []string
}

type patternKind int

const (
	kindSuffix patternKind = iota
	kindLiteral
	kindGlob
)

// compiledPattern is one pattern with its kind decided and its match value
// lower-cased.
type compiledPattern struct {
	raw   string
	kind  patternKind
	value string
}

// matcher implements the Matcher interface.
type matcher struct {
	patterns []compiledPattern
}

// Compile validates and compiles a pattern list into a Matcher.
//
// An empty list compiles to a matcher that excludes nothing. Returns
// ErrEmptyPattern or ErrBadPattern (wrapped with the offending pattern)
// when a pattern cannot be compiled.
func Compile(patterns []string) (Matcher, error) {
	m := &matcher{patterns: make([]compiledPattern, 0, len(patterns))}
	for _, p := range patterns {
		cp, err := compile(p)
		if err != nil {
			return nil, err
		}
		m.patterns = append(m.patterns, cp)
	}
	return m, nil
}

// Validate checks a single pattern without building a matcher.
//
// Used at add time so a bad pattern is refused before it reaches the
// persisted pattern list.
func Validate(pattern string) error {
	_, err := compile(pattern)
	return err
}

// Excluded implements Matcher.Excluded.
func (m *matcher) Excluded(fileName string) bool {
	name := strings.ToLower(fileName)
	for _, p := range m.patterns {
		switch p.kind {
		case kindSuffix:
			if strings.HasSuffix(name, p.value) {
				return true
			}
		case kindLiteral:
			if name == p.value {
				return true
			}
		case kindGlob:
			// Pattern validity was checked at compile time.
			if ok, _ := path.Match(p.value, name); ok {
				return true
			}
		}
	}
	return false
}

// Patterns implements Matcher.Patterns.
func (m *matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		out[i] = p.raw
	}
	return out
}

// compile decides the pattern kind and lower-cases the match value.
//
// The wildcard check runs before the dotted-suffix check so that a pattern
// like ".*rc" globs instead of demanding a literal "*rc" suffix.
func compile(pattern string) (compiledPattern, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return compiledPattern{}, ErrEmptyPattern
	}

	value := strings.ToLower(trimmed)
	switch {
	case strings.ContainsAny(value, "*?["):
		if _, err := path.Match(value, ""); err != nil {
			return compiledPattern{}, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}
		return compiledPattern{raw: trimmed, kind: kindGlob, value: value}, nil
	case strings.HasPrefix(value, "."):
		return compiledPattern{raw: trimmed, kind: kindSuffix, value: value}, nil
	default:
		return compiledPattern{raw: trimmed, kind: kindLiteral, value: value}, nil
	}
}
