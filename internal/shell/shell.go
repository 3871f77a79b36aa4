// Package shell resolves which shell interpreter to use for "run this
// command string" invocations and knows how to quote arguments for it.
package shell

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Dialect identifies the target shell flavor. It affects both the
// invocation convention and argument quoting.
type Dialect string

const (
	DialectPosix      Dialect = "posix"
	DialectCmd        Dialect = "cmd"
	DialectPowerShell Dialect = "powershell"
)

// Config describes how to invoke a shell with a single command string:
// Executable, then ArgsPrefix, then the command itself.
type Config struct {
	Executable string
	ArgsPrefix []string
	Dialect    Dialect
}

// CommandArgs returns the full argument list for running command through
// the configured shell.
func (c Config) CommandArgs(command string) []string {
	args := make([]string, 0, len(c.ArgsPrefix)+1)
	args = append(args, c.ArgsPrefix...)
	return append(args, command)
}

// Resolve selects the shell configuration for the current platform.
// On Windows it honors COMSPEC and detects PowerShell by executable name;
// everywhere else it is bash -c. It always returns a usable value.
func Resolve() Config {
	return resolve(runtime.GOOS, os.Getenv("COMSPEC"))
}

func resolve(goos, comspec string) Config {
	if goos != "windows" {
		return Config{
			Executable: "bash",
			ArgsPrefix: []string{"-c"},
			Dialect:    DialectPosix,
		}
	}

	interpreter := comspec
	if interpreter == "" {
		interpreter = "cmd.exe"
	}

	name := strings.ToLower(filepath.Base(interpreter))
	if strings.HasSuffix(name, "powershell.exe") || strings.HasSuffix(name, "pwsh.exe") ||
		name == "powershell" || name == "pwsh" {
		return Config{
			Executable: interpreter,
			ArgsPrefix: []string{"-NoProfile", "-Command"},
			Dialect:    DialectPowerShell,
		}
	}

	return Config{
		Executable: interpreter,
		ArgsPrefix: []string{"/d", "/s", "/c"},
		Dialect:    DialectCmd,
	}
}
