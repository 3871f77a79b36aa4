// Package cmdparse splits compound shell command lines, extracts command
// roots, and detects dynamic sub-execution constructs. It deliberately
// reimplements just enough of shell quoting semantics to make those three
// operations safe; it is not a shell interpreter.
package cmdparse

import (
	"regexp"
	"strings"
)

// Split breaks a compound command line into its individual commands at
// unquoted control operators (;, &, |, &&, ||, and line breaks).
// Quoting and escaping inside each command is preserved verbatim.
func Split(line string) []string {
	var commands []string
	var cur strings.Builder
	inSingle, inDouble := false, false

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			commands = append(commands, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(line); i++ {
		c := line[i]

		// Backslash escapes the next byte everywhere except inside
		// single quotes. Both bytes pass through unchanged.
		if c == '\\' && !inSingle {
			cur.WriteByte(c)
			if i+1 < len(line) {
				cur.WriteByte(line[i+1])
				i++
			}
			continue
		}

		if c == '\'' && !inDouble {
			inSingle = !inSingle
			cur.WriteByte(c)
			continue
		}
		if c == '"' && !inSingle {
			inDouble = !inDouble
			cur.WriteByte(c)
			continue
		}
		if inSingle || inDouble {
			cur.WriteByte(c)
			continue
		}

		switch c {
		case ';':
			flush()
		case '&', '|':
			if i+1 < len(line) && line[i+1] == c {
				i++ // && or ||
			}
			flush()
		case '\r':
			if i+1 < len(line) && line[i+1] == '\n' {
				i++
			}
			flush()
		case '\n':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return commands
}

// leadingToken matches the first token of a command: a double-quoted run,
// a single-quoted run, or a bare run of non-whitespace, in that order.
var leadingToken = regexp.MustCompile(`^(?:"([^"]*)"|'([^']*)'|(\S+))`)

// Root extracts the invoked program name from a single command string:
// the first token, unquoted, reduced to its final path segment.
// The second return value is false when the command has no token at all.
func Root(command string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false
	}

	m := leadingToken.FindStringSubmatchIndex(command)
	if m == nil {
		return "", false
	}
	var token string
	for g := 1; g <= 3; g++ {
		if m[2*g] >= 0 {
			token = command[m[2*g]:m[2*g+1]]
			break
		}
	}

	// Final path segment, accepting both separators.
	if i := strings.LastIndexAny(token, `/\`); i >= 0 {
		token = token[i+1:]
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// AllRoots splits line into commands and returns the root of each,
// skipping commands with no resolvable root.
func AllRoots(line string) []string {
	var roots []string
	for _, cmd := range Split(line) {
		if root, ok := Root(cmd); ok {
			roots = append(roots, root)
		}
	}
	return roots
}

// wrapperPrefix matches a leading shell invocation such as "bash -c " or
// "cmd.exe /c ".
var wrapperPrefix = regexp.MustCompile(`(?i)^\s*(?:sh|bash|zsh|dash|ksh|cmd(?:\.exe)?|powershell(?:\.exe)?|pwsh(?:\.exe)?)\s+(?:-c|/c)\s+`)

// StripWrapper removes a recognized "shell -c"/"shell /c" prefix from the
// line, plus one outer pair of matching quotes around the remainder. Lines
// without such a prefix come back trimmed but otherwise untouched.
func StripWrapper(line string) string {
	loc := wrapperPrefix.FindStringIndex(line)
	if loc == nil {
		return strings.TrimSpace(line)
	}

	rest := strings.TrimSpace(line[loc[1]:])
	if wrapped, ok := unwrapOuterQuotes(rest); ok {
		return wrapped
	}
	return rest
}

// unwrapOuterQuotes removes a single pair of quotes when they enclose the
// entire string.
func unwrapOuterQuotes(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return s, false
	}
	inner := s[1 : len(s)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && q == '"' {
			i++
			continue
		}
		if inner[i] == q {
			// The opening quote closes before the end; the pair does
			// not wrap the whole string.
			return s, false
		}
	}
	return inner, true
}
