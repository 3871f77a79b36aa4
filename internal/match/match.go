// Package match implements the configured pattern grammar used by the
// policy engine for allow and block lists.
//
// A pattern is matched against a whitespace-normalized command string:
//
//   - "*" matches every command
//   - "git commit *" matches "git commit" followed by anything
//   - "git status" matches that command with or without further arguments
//   - patterns with other glob metacharacters use doublestar matching
package match

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternMatcher is the default policy.Matcher implementation. It is
// stateless and safe for concurrent use.
type PatternMatcher struct{}

// New returns the default pattern matcher.
func New() *PatternMatcher {
	return &PatternMatcher{}
}

// Matches reports whether command matches any of the patterns.
func (pm *PatternMatcher) Matches(command string, patterns []string) bool {
	for _, p := range patterns {
		if matchPattern(command, p) {
			return true
		}
	}
	return false
}

func matchPattern(command, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	if pattern == "*" {
		return true
	}
	if command == pattern {
		return true
	}

	// "prefix *" patterns: the dominant form in practice. The bare
	// prefix also matches, so "git commit *" approves "git commit".
	if prefix, ok := strings.CutSuffix(pattern, " *"); ok {
		return command == prefix || strings.HasPrefix(command, prefix+" ")
	}

	// Glob metacharacters go through doublestar.
	if strings.ContainsAny(pattern, "*?[") {
		ok, err := doublestar.Match(pattern, command)
		return err == nil && ok
	}

	// A plain pattern is capability-scoped: "ls" approves "ls -la", on a
	// word boundary so "lsof" stays unmatched.
	return strings.HasPrefix(command, pattern+" ")
}
