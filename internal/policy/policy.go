// Package policy decides whether a shell command line is authorized to
// run. It layers an injection gate, configured block/allow lists, and an
// optional per-session allowlist into a single decision.
package policy

import (
	"fmt"
	"strings"

	"github.com/shellgate/shellgate/internal/cmdparse"
)

// Wildcard in a blocked or allowed list applies the rule to every
// command, not a specific pattern.
const Wildcard = "*"

// Policy is the caller-supplied configuration: patterns whose matching
// commands are always refused, and patterns whose matching commands are
// pre-approved.
type Policy struct {
	Blocked []string `json:"blocked,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
}

// Matcher decides whether a single normalized command matches any of the
// configured patterns. The pattern grammar is the matcher's concern, not
// this package's.
type Matcher interface {
	Matches(command string, patterns []string) bool
}

// Decision is the outcome of a permission check. Hard denials must never
// be offered for interactive override; soft denials mean "not yet
// approved" and may be confirmed by the user.
type Decision struct {
	Allowed    bool     `json:"allowed"`
	Disallowed []string `json:"disallowed,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	HardDenial bool     `json:"hardDenial,omitempty"`
}

const (
	// ReasonSubstitution is the fixed hard-denial reason for command
	// lines that would trigger dynamic sub-execution.
	ReasonSubstitution = "command contains command substitution or process substitution, which cannot be authorized"

	// ReasonDisabled is the hard-denial reason when shell execution is
	// wildcard-blocked by configuration.
	ReasonDisabled = "shell execution is globally disabled by configuration"
)

// nopMatcher matches nothing. Used when the caller supplies no matcher.
type nopMatcher struct{}

func (nopMatcher) Matches(string, []string) bool { return false }

// Check evaluates a raw command line against the policy.
//
// session is the per-session allowlist: nil means none was supplied and
// the engine runs in default-allow mode; a non-nil slice (even empty)
// switches to default-deny, where every sub-command must match either the
// session list or the global allow list.
func Check(line string, pol Policy, session []string, m Matcher) Decision {
	if m == nil {
		m = nopMatcher{}
	}

	// Injection gate. Unconditional, and ahead of every allow rule: a
	// wildcard allow must not open the door to $(...) payloads.
	if cmdparse.ContainsSubstitution(line) {
		return Decision{
			Disallowed: []string{line},
			Reason:     ReasonSubstitution,
			HardDenial: true,
		}
	}

	commands := normalizeCommands(cmdparse.Split(line))

	if containsWildcard(pol.Blocked) {
		return Decision{
			Disallowed: commands,
			Reason:     ReasonDisabled,
			HardDenial: true,
		}
	}

	blocked := withoutWildcard(pol.Blocked)
	for _, cmd := range commands {
		if m.Matches(cmd, blocked) {
			return Decision{
				Disallowed: []string{cmd},
				Reason:     fmt.Sprintf("command %q is blocked by configuration", cmd),
				HardDenial: true,
			}
		}
	}

	if containsWildcard(pol.Allowed) {
		return Decision{Allowed: true}
	}

	allowed := withoutWildcard(pol.Allowed)
	var disallowed []string
	switch {
	case session != nil:
		// Default-deny: only session-approved or globally allowed
		// commands pass.
		for _, cmd := range commands {
			if m.Matches(cmd, session) || m.Matches(cmd, allowed) {
				continue
			}
			disallowed = append(disallowed, cmd)
		}
	case len(allowed) > 0:
		// Default-allow with specific patterns: each command must match
		// one of them.
		for _, cmd := range commands {
			if !m.Matches(cmd, allowed) {
				disallowed = append(disallowed, cmd)
			}
		}
	}

	if len(disallowed) > 0 {
		return Decision{
			Disallowed: disallowed,
			Reason:     "commands not yet approved: " + strings.Join(disallowed, ", "),
		}
	}

	return Decision{Allowed: true}
}

// normalizeCommands trims each command and collapses internal whitespace
// runs to single spaces, so pattern matching sees a canonical form.
func normalizeCommands(commands []string) []string {
	out := make([]string, 0, len(commands))
	for _, cmd := range commands {
		if fields := strings.Fields(cmd); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	return out
}

func containsWildcard(patterns []string) bool {
	for _, p := range patterns {
		if p == Wildcard {
			return true
		}
	}
	return false
}

func withoutWildcard(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != Wildcard {
			out = append(out, p)
		}
	}
	return out
}
