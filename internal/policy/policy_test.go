package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellgate/shellgate/internal/match"
	"github.com/shellgate/shellgate/internal/policy"
)

func TestCheck(t *testing.T) {
	m := match.New()

	tests := []struct {
		name    string
		line    string
		pol     policy.Policy
		session []string
		allowed bool
		hard    bool
		reason  string
		refused []string
	}{
		{
			name:    "default allow with empty policy",
			line:    "ls -la",
			allowed: true,
		},
		{
			name:    "substitution is a hard denial",
			line:    "echo $(whoami)",
			hard:    true,
			reason:  policy.ReasonSubstitution,
			refused: []string{"echo $(whoami)"},
		},
		{
			name:    "wildcard allow does not override the injection gate",
			line:    "echo `id`",
			pol:     policy.Policy{Allowed: []string{policy.Wildcard}},
			hard:    true,
			reason:  policy.ReasonSubstitution,
			refused: []string{"echo `id`"},
		},
		{
			name:    "wildcard block disables everything",
			line:    "ls && pwd",
			pol:     policy.Policy{Blocked: []string{policy.Wildcard}},
			hard:    true,
			reason:  policy.ReasonDisabled,
			refused: []string{"ls", "pwd"},
		},
		{
			name:    "wildcard block beats wildcard allow",
			line:    "ls",
			pol:     policy.Policy{Blocked: []string{policy.Wildcard}, Allowed: []string{policy.Wildcard}},
			hard:    true,
			reason:  policy.ReasonDisabled,
			refused: []string{"ls"},
		},
		{
			name:    "blocked pattern names the single offending command",
			line:    "ls && rm -rf /tmp/x",
			pol:     policy.Policy{Blocked: []string{"rm *"}},
			hard:    true,
			reason:  `command "rm -rf /tmp/x" is blocked by configuration`,
			refused: []string{"rm -rf /tmp/x"},
		},
		{
			name:    "block wins over allow for the same command",
			line:    "git push",
			pol:     policy.Policy{Blocked: []string{"git push"}, Allowed: []string{"git *"}},
			hard:    true,
			refused: []string{"git push"},
		},
		{
			name:    "wildcard allow passes plain commands",
			line:    "ls && pwd",
			pol:     policy.Policy{Allowed: []string{policy.Wildcard}},
			allowed: true,
		},
		{
			name:    "default allow with allow list requires a match",
			line:    "git status && ls",
			pol:     policy.Policy{Allowed: []string{"git status"}},
			refused: []string{"ls"},
			reason:  "commands not yet approved: ls",
		},
		{
			name:    "default deny refuses everything unmatched",
			line:    "git status && ls",
			pol:     policy.Policy{Allowed: []string{"git status"}},
			session: []string{},
			refused: []string{"ls"},
			reason:  "commands not yet approved: ls",
		},
		{
			name:    "session approval combines with the allow list",
			line:    "git status && ls",
			pol:     policy.Policy{Allowed: []string{"git status"}},
			session: []string{"ls"},
			allowed: true,
		},
		{
			name:    "session pattern covers the command's arguments",
			line:    "ls -la",
			pol:     policy.Policy{Allowed: []string{"git status"}},
			session: []string{"ls"},
			allowed: true,
		},
		{
			name:    "default deny refuses a destructive command",
			line:    "rm -rf /",
			pol:     policy.Policy{Allowed: []string{"git status"}},
			session: []string{"ls"},
			refused: []string{"rm -rf /"},
			reason:  "commands not yet approved: rm -rf /",
		},
		{
			name:    "empty session list denies everything",
			line:    "ls",
			session: []string{},
			refused: []string{"ls"},
			reason:  "commands not yet approved: ls",
		},
		{
			name:    "whitespace is normalized before matching",
			line:    "  git   status  ",
			pol:     policy.Policy{Allowed: []string{"git status"}},
			session: []string{},
			allowed: true,
		},
		{
			name:    "empty line is allowed",
			line:    "",
			session: []string{},
			allowed: true,
		},
		{
			name:    "soft denial lists every refused command",
			line:    "ls; pwd; whoami",
			session: []string{"pwd"},
			refused: []string{"ls", "whoami"},
			reason:  "commands not yet approved: ls, whoami",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := policy.Check(tt.line, tt.pol, tt.session, m)
			assert.Equal(t, tt.allowed, dec.Allowed)
			assert.Equal(t, tt.hard, dec.HardDenial)
			assert.Equal(t, tt.refused, dec.Disallowed)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, dec.Reason)
			}
			if !tt.allowed {
				require.NotEmpty(t, dec.Disallowed)
			}
		})
	}
}

func TestCheckNilMatcherMatchesNothing(t *testing.T) {
	dec := policy.Check("ls", policy.Policy{Allowed: []string{"ls"}}, nil, nil)
	assert.False(t, dec.Allowed)
	assert.False(t, dec.HardDenial)

	// With no patterns in play the nil matcher never runs, so plain
	// default-allow still works.
	dec = policy.Check("ls", policy.Policy{}, nil, nil)
	assert.True(t, dec.Allowed)
}

// No input containing a live substitution trigger may ever be allowed,
// whatever the policy says.
func TestCheckSubstitutionAlwaysRefused(t *testing.T) {
	policies := []policy.Policy{
		{},
		{Allowed: []string{policy.Wildcard}},
		{Allowed: []string{"echo *"}},
		{Blocked: []string{"rm *"}, Allowed: []string{policy.Wildcard}},
	}
	lines := []string{
		"echo $(id)",
		"echo `id`",
		"diff <(ls) <(ls -a)",
		`echo "$(id)"`,
		"cat <<EOF\n$(id)\nEOF\n",
	}

	for _, pol := range policies {
		for _, line := range lines {
			dec := policy.Check(line, pol, nil, match.New())
			assert.False(t, dec.Allowed, "line %q must be refused", line)
			assert.True(t, dec.HardDenial, "line %q must be a hard denial", line)
		}
	}
}
