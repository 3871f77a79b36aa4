package cmdparse

import "strings"

// scanState is the detector's position in the quoting structure of the
// input. Exactly one state is active at a time, which keeps impossible
// combinations (a comment inside a single-quoted string, say) out of the
// state space entirely.
type scanState int

const (
	stateNormal scanState = iota
	stateSingleQuote
	stateDoubleQuote
	stateComment
)

// heredoc is a pending here-document parsed from a << operator, waiting
// for its body to begin at the next line boundary.
type heredoc struct {
	delimiter string
	quoted    bool // any quoting in the delimiter word disables expansion
	stripTabs bool // <<- strips leading tabs before delimiter comparison
}

// ContainsSubstitution reports whether executing line under shell
// semantics would evaluate at least one dynamic sub-execution construct:
// $(...), backtick substitution, or <(...)/>(...) process substitution,
// including occurrences reachable through an unquoted heredoc body.
//
// This is a security gate, so ambiguity resolves toward true. Single
// quotes are the only context treated as fully inert.
func ContainsSubstitution(line string) bool {
	s := line
	n := len(s)
	state := stateNormal
	var pending []heredoc // FIFO of heredocs awaiting their bodies
	atLineStart := true
	var prev byte

	for i := 0; i < n; i++ {
		c := s[i]

		// Line boundaries are only boundaries outside quotes. A newline
		// ends a comment and starts any pending heredoc bodies.
		if (c == '\n' || c == '\r') && state != stateSingleQuote && state != stateDoubleQuote {
			if c == '\r' && i+1 < n && s[i+1] == '\n' {
				i++
			}
			state = stateNormal
			if len(pending) > 0 {
				found, resume := consumeHeredocBodies(s, i+1, pending)
				if found {
					return true
				}
				pending = nil
				i = resume - 1
			}
			atLineStart = true
			prev = 0
			continue
		}

		if state == stateComment {
			continue
		}

		// Backslash neutralizes the following byte outside single quotes.
		if c == '\\' && state != stateSingleQuote {
			if i+1 < n {
				prev = s[i+1]
				i++
			}
			atLineStart = false
			continue
		}

		switch state {
		case stateSingleQuote:
			if c == '\'' {
				state = stateNormal
			}

		case stateDoubleQuote:
			switch c {
			case '"':
				state = stateNormal
			case '`':
				// Backticks expand inside double quotes.
				return true
			case '$':
				if i+1 < n && s[i+1] == '(' {
					return true
				}
			}

		case stateNormal:
			switch c {
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			case '`':
				return true
			case '$':
				if i+1 < n && s[i+1] == '(' {
					return true
				}
			case '#':
				if atLineStart || isCommentDelimiter(prev) {
					state = stateComment
				}
			case '<':
				if i+1 < n && s[i+1] == '<' {
					if hd, next, ok := parseHeredocOperator(s, i+2); ok {
						pending = append(pending, hd)
						i = next - 1
						atLineStart = false
						prev = 0
						continue
					}
					// Not a heredoc; rescan the second < so that <(
					// process substitution is still caught.
					break
				}
				if i+1 < n && s[i+1] == '(' {
					return true
				}
			case '>':
				if i+1 < n && s[i+1] == '(' {
					return true
				}
			}
		}

		atLineStart = false
		prev = c
	}

	return false
}

// isCommentDelimiter reports whether b may legally precede an unescaped #
// that starts a comment.
func isCommentDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', ';', '&', '|', '(', ')', '<', '>':
		return true
	}
	return false
}

// parseHeredocOperator parses the tail of a heredoc operator. pos points
// just past "<<". It returns the parsed heredoc, the index where normal
// scanning resumes, and whether a delimiter word was actually present.
func parseHeredocOperator(s string, pos int) (heredoc, int, bool) {
	var hd heredoc
	j := pos
	n := len(s)

	if j < n && s[j] == '-' {
		hd.stripTabs = true
		j++
	}
	for j < n && (s[j] == ' ' || s[j] == '\t') {
		j++
	}

	// The delimiter is parsed like a shell word: quoting is stripped but
	// remembered, and the word ends at whitespace or a control character.
	var delim strings.Builder
word:
	for j < n {
		switch c := s[j]; c {
		case ' ', '\t', '\n', '\r', ';', '&', '|', '<', '>', '(', ')':
			break word
		case '\'':
			hd.quoted = true
			j++
			for j < n && s[j] != '\'' && s[j] != '\n' && s[j] != '\r' {
				delim.WriteByte(s[j])
				j++
			}
			if j < n && s[j] == '\'' {
				j++
			}
		case '"':
			hd.quoted = true
			j++
			for j < n && s[j] != '"' && s[j] != '\n' && s[j] != '\r' {
				if s[j] == '\\' && j+1 < n {
					j++
				}
				delim.WriteByte(s[j])
				j++
			}
			if j < n && s[j] == '"' {
				j++
			}
		case '\\':
			hd.quoted = true
			j++
			if j < n {
				delim.WriteByte(s[j])
				j++
			}
		default:
			delim.WriteByte(c)
			j++
		}
	}

	hd.delimiter = delim.String()
	if hd.delimiter == "" && !hd.quoted {
		return heredoc{}, pos, false
	}
	return hd, j, true
}

// consumeHeredocBodies reads heredoc bodies starting at pos, one pending
// heredoc at a time in FIFO order. It returns true as soon as an
// expandable body line contains a live trigger, otherwise the offset at
// which normal scanning resumes. Unterminated heredocs swallow the rest
// of the input.
func consumeHeredocBodies(s string, pos int, docs []heredoc) (bool, int) {
	di := 0
	dangling := false // previous line ended in unescaped $ plus continuation

	for pos < len(s) && di < len(docs) {
		line, next := nextLine(s, pos)
		doc := docs[di]

		cmp := line
		if doc.stripTabs {
			cmp = strings.TrimLeft(line, "\t")
		}
		if cmp == doc.delimiter {
			di++
			dangling = false
			pos = next
			continue
		}

		if !doc.quoted {
			// bash joins a $-then-backslash line ending with the next
			// line, which may complete a $( trigger.
			if dangling && strings.HasPrefix(line, "(") {
				return true, 0
			}
			found, d := scanExpandableBodyLine(line)
			if found {
				return true, 0
			}
			dangling = d
		}
		pos = next
	}

	return false, pos
}

// scanExpandableBodyLine checks one unquoted-heredoc body line for $( or
// backtick triggers. The second result reports a trailing unescaped "$\"
// line continuation.
func scanExpandableBodyLine(line string) (found, dangling bool) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '`':
			return true, false
		case '$':
			if i+1 < len(line) {
				if line[i+1] == '(' {
					return true, false
				}
				if line[i+1] == '\\' && i+2 == len(line) {
					return false, true
				}
			}
		}
	}
	return false, false
}

// nextLine returns the line starting at pos (without its terminator) and
// the offset of the following line.
func nextLine(s string, pos int) (string, int) {
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '\n':
			return s[pos:i], i + 1
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				return s[pos:i], i + 2
			}
			return s[pos:i], i + 1
		}
	}
	return s[pos:], len(s)
}
