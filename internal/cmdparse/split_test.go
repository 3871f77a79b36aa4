package cmdparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "single command",
			line:     "ls -la",
			expected: []string{"ls -la"},
		},
		{
			name:     "all separators",
			line:     "a; b && c || d",
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "pipe and background",
			line:     "cat f | grep x & sleep 1",
			expected: []string{"cat f", "grep x", "sleep 1"},
		},
		{
			name:     "separator inside single quotes is inert",
			line:     "echo 'a; b'",
			expected: []string{"echo 'a; b'"},
		},
		{
			name:     "separator inside double quotes is inert",
			line:     `echo "a && b"`,
			expected: []string{`echo "a && b"`},
		},
		{
			name:     "escaped separator is inert",
			line:     `echo a\;b`,
			expected: []string{`echo a\;b`},
		},
		{
			name:     "newline separates",
			line:     "a\nb",
			expected: []string{"a", "b"},
		},
		{
			name:     "crlf separates once",
			line:     "a\r\nb",
			expected: []string{"a", "b"},
		},
		{
			name:     "bare carriage return separates",
			line:     "a\rb",
			expected: []string{"a", "b"},
		},
		{
			name:     "empty segments dropped",
			line:     ";; a ;;",
			expected: []string{"a"},
		},
		{
			name:     "empty line",
			line:     "   ",
			expected: nil,
		},
		{
			name:     "quotes keep internal escaping",
			line:     `git commit -m "fix; all" && git push`,
			expected: []string{`git commit -m "fix; all"`, "git push"},
		},
		{
			name:     "unterminated quote swallows separators",
			line:     "echo 'a; b",
			expected: []string{"echo 'a; b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Split(tt.line))
		})
	}
}

// Re-joining split output with a separator and splitting again must not
// change the list.
func TestSplitIdempotent(t *testing.T) {
	lines := []string{
		"a; b && c || d",
		"echo 'a; b' && ls",
		`git commit -m "wip" | tee log`,
	}
	for _, line := range lines {
		first := Split(line)
		second := Split(strings.Join(first, "; "))
		assert.Equal(t, first, second, "line %q", line)
	}
}

func TestRoot(t *testing.T) {
	tests := []struct {
		name    string
		command string
		root    string
		ok      bool
	}{
		{"plain", "ls -la", "ls", true},
		{"absolute path", "/usr/bin/git status", "git", true},
		{"relative path", "./bin/tool --flag", "tool", true},
		{"windows path", `C:\tools\node.exe script.js`, "node.exe", true},
		{"double quoted", `"my cmd" arg`, "my cmd", true},
		{"single quoted", "'some tool' -x", "some tool", true},
		{"quoted path", `"/opt/my tools/run" now`, "run", true},
		{"empty", "", "", false},
		{"whitespace only", "  \t ", "", false},
		{"bare slash", "/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, ok := Root(tt.command)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.root, root)
		})
	}
}

func TestAllRoots(t *testing.T) {
	assert.Equal(t, []string{"git", "npm", "ls"}, AllRoots("/usr/bin/git pull && npm install; ls"))
	assert.Empty(t, AllRoots(""))
}

func TestStripWrapper(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"bash dash c double quoted", `bash -c "ls -la"`, "ls -la"},
		{"bash dash c single quoted", "bash -c 'git status'", "git status"},
		{"sh wrapper", "sh -c 'echo hi'", "echo hi"},
		{"zsh wrapper unquoted", "zsh -c ls", "ls"},
		{"cmd slash c", `cmd.exe /c "dir /w"`, "dir /w"},
		{"powershell", `powershell -c "Get-ChildItem"`, "Get-ChildItem"},
		{"leading whitespace", `   bash -c "pwd"`, "pwd"},
		{"not a wrapper", "git commit -m 'bash -c'", "git commit -m 'bash -c'"},
		{"wrapper name alone", "bash script.sh", "bash script.sh"},
		{"partially quoted remainder stays", `bash -c "a" "b"`, `"a" "b"`},
		{"unquoted remainder", "bash -c ls -la", "ls -la"},
		{"trims non-matching line", "  ls -la  ", "ls -la"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripWrapper(tt.line))
		})
	}
}
