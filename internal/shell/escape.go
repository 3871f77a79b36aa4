package shell

import "strings"

// safeForPosix reports whether s needs no quoting in a POSIX shell.
func safeForPosix(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '/' || r == '+' || r == '=' || r == ':' || r == ',' || r == '@' || r == '%':
		default:
			return false
		}
	}
	return true
}

// EscapeArgument quotes value so it survives as exactly one argument when
// spliced into a command string for the given dialect.
//
// An empty value is returned unchanged rather than as an empty-quoted
// token; callers that need the argument to occupy a positional slot must
// handle that themselves.
func EscapeArgument(value string, d Dialect) string {
	if value == "" {
		return ""
	}

	switch d {
	case DialectPowerShell:
		// Single quotes are literal in PowerShell; embedded ones double.
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	case DialectCmd:
		// Conservative: covers simple arguments, not the full cmd.exe
		// metacharacter zoo.
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	default:
		if safeForPosix(value) {
			return value
		}
		// 'it'\''s' — close the quote, emit a literal ', reopen.
		return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
	}
}

// EscapeArguments escapes each argument for the given dialect.
func EscapeArguments(values []string, d Dialect) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = EscapeArgument(v, d)
	}
	return out
}
