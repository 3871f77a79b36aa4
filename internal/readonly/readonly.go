// Package readonly classifies commands that only observe state and can
// therefore skip explicit authorization.
package readonly

import (
	"strings"

	"github.com/shellgate/shellgate/internal/cmdparse"
)

// readOnlyRoots are programs that never mutate anything regardless of
// their arguments.
var readOnlyRoots = map[string]bool{
	"basename": true,
	"cat":      true,
	"cmp":      true,
	"cut":      true,
	"date":     true,
	"df":       true,
	"diff":     true,
	"dirname":  true,
	"du":       true,
	"echo":     true,
	"env":      true,
	"false":    true,
	"file":     true,
	"grep":     true,
	"head":     true,
	"hostname": true,
	"id":       true,
	"less":     true,
	"ls":       true,
	"more":     true,
	"printenv": true,
	"printf":   true,
	"ps":       true,
	"pwd":      true,
	"rg":       true,
	"sort":     true,
	"stat":     true,
	"tail":     true,
	"tr":       true,
	"tree":     true,
	"true":     true,
	"type":     true,
	"uname":    true,
	"uniq":     true,
	"uptime":   true,
	"wc":       true,
	"which":    true,
	"whoami":   true,
}

// readOnlySubcommands are tool/subcommand pairs that are read-only even
// though the tool itself is not.
var readOnlySubcommands = map[string]map[string]bool{
	"git": {
		"blame":  true,
		"branch": true,
		"diff":   true,
		"log":    true,
		"remote": true,
		"show":   true,
		"status": true,
	},
	"go": {
		"env":     true,
		"version": true,
	},
	"docker": {
		"images": true,
		"ps":     true,
	},
	"npm": {
		"ls": true,
	},
}

// Classifier answers whether commands are read-only. The zero value uses
// the built-in tables; Extra adds caller-specific read-only roots.
type Classifier struct {
	Extra map[string]bool
}

// IsReadOnly reports whether a single command observes without mutating.
func (c *Classifier) IsReadOnly(command string) bool {
	root, ok := cmdparse.Root(command)
	if !ok {
		return false
	}
	if readOnlyRoots[root] || (c != nil && c.Extra[root]) {
		return true
	}

	subs, ok := readOnlySubcommands[root]
	if !ok {
		return false
	}
	for _, field := range strings.Fields(command)[1:] {
		if strings.HasPrefix(field, "-") {
			continue
		}
		return subs[field]
	}
	return false
}

// NeedsPermission reports whether the full command line requires explicit
// authorization before execution. Substitution always does; otherwise
// every command in the (wrapper-stripped) line must be read-only.
func (c *Classifier) NeedsPermission(line string) bool {
	stripped := cmdparse.StripWrapper(line)
	if cmdparse.ContainsSubstitution(stripped) {
		return true
	}

	commands := cmdparse.Split(stripped)
	if len(commands) == 0 {
		return false
	}
	for _, cmd := range commands {
		if !c.IsReadOnly(cmd) {
			return true
		}
	}
	return false
}
