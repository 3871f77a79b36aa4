package cmdparse

import (
	"strings"
	"testing"
)

func FuzzContainsSubstitution(f *testing.F) {
	f.Add("ls -la")
	f.Add("echo $(whoami)")
	f.Add("echo `id`")
	f.Add("diff <(ls) <(ls -a)")
	f.Add("echo '$(safe)'")
	f.Add(`echo "$(id)"`)
	f.Add("cat <<EOF\n$(whoami)\nEOF\n")
	f.Add("cat <<'EOF'\n$(whoami)\nEOF\n")
	f.Add("cat <<-EOF\n\tbody\n\tEOF\n")
	f.Add("ls # $(dangerous)")
	f.Add(`echo \$\(id\)`)
	f.Add("cat <<EOF\nfoo$\\\n(whoami)\nEOF\n")
	f.Add("a\"b'c")
	f.Add("")
	f.Add("\r\n\r\n")
	f.Add("<<")
	f.Add("<<''")

	f.Fuzz(func(t *testing.T, line string) {
		// Must not panic on arbitrary input (implicit).
		got := ContainsSubstitution(line)

		// Wrapping the whole input in single quotes neutralizes every
		// trigger, as long as the input cannot close the quote itself.
		if !strings.ContainsAny(line, "'\n\r") {
			if ContainsSubstitution("echo '" + line + "'") {
				t.Errorf("single-quoted input %q reported as substitution", line)
			}
		}

		// Appending a bare trigger after the input must never flip the
		// result when the input left no open quoting context behind.
		if !strings.ContainsAny(line, "'\"\\<") && !got {
			if !ContainsSubstitution(line+"\n$(id)") {
				t.Errorf("appended trigger not detected after %q", line)
			}
		}
	})
}

func FuzzSplit(f *testing.F) {
	f.Add("ls && pwd")
	f.Add("echo 'a; b' | wc")
	f.Add("a;;b&&c||d")
	f.Add(`echo "x && y"`)
	f.Add("one\ntwo\r\nthree")
	f.Add("")

	f.Fuzz(func(t *testing.T, line string) {
		pieces := Split(line)
		for i, p := range pieces {
			if strings.TrimSpace(p) == "" {
				t.Errorf("Split(%q) returned blank piece at index %d", line, i)
			}
			if p != strings.TrimSpace(p) {
				t.Errorf("Split(%q) returned untrimmed piece %q", line, p)
			}
		}
	})
}
