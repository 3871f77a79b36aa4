package readonly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReadOnly(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		extra    map[string]bool
		expected bool
	}{
		{"plain read-only root", "ls -la", nil, true},
		{"root with path prefix", "/bin/ls -la", nil, true},
		{"mutating root", "rm -rf /tmp/x", nil, false},
		{"git status", "git status", nil, true},
		{"git status with flags first", "git --no-pager status", nil, true},
		{"git push", "git push origin main", nil, false},
		{"git alone", "git", nil, false},
		{"go version", "go version", nil, true},
		{"go build", "go build ./...", nil, false},
		{"docker ps", "docker ps -a", nil, true},
		{"npm ls", "npm ls", nil, true},
		{"npm install", "npm install left-pad", nil, false},
		{"extra root", "kubectl get pods", map[string]bool{"kubectl": true}, true},
		{"empty command", "", nil, false},
		{"whitespace only", "   ", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Classifier{Extra: tt.extra}
			assert.Equal(t, tt.expected, c.IsReadOnly(tt.command))
		})
	}
}

func TestNeedsPermission(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"single read-only command", "ls -la", false},
		{"read-only chain", "ls && pwd | wc -l", false},
		{"one mutating command taints the chain", "ls && rm -rf /tmp/x", true},
		{"substitution always needs permission", "echo $(whoami)", true},
		{"substitution hidden behind read-only root", "cat <(id)", true},
		{"wrapper is stripped before classification", `bash -c "git status"`, false},
		{"wrapper around mutating command", `sh -c "rm -rf /tmp/x"`, true},
		{"empty line", "", false},
		{"git subcommand chain", "git status && git diff", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Classifier{}
			assert.Equal(t, tt.expected, c.NeedsPermission(tt.line))
		})
	}
}
