package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shellgate/shellgate/internal/cmdparse"
	"github.com/shellgate/shellgate/internal/shell"
)

var splitCmd = &cobra.Command{
	Use:   "split <command line>",
	Short: "Split a compound command line into its individual commands",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		line := strings.Join(args, " ")
		for _, c := range cmdparse.Split(line) {
			fmt.Println(c)
		}
		if cmdparse.ContainsSubstitution(line) {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: line contains command or process substitution")
		}
	},
}

var rootsCmd = &cobra.Command{
	Use:   "roots <command line>",
	Short: "Print the invoked program name of each command in the line",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, root := range cmdparse.AllRoots(strings.Join(args, " ")) {
			fmt.Println(root)
		}
	},
}

var escapeDialect string

var escapeCmd = &cobra.Command{
	Use:   "escape <value>...",
	Short: "Quote values as single shell arguments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var d shell.Dialect
		switch escapeDialect {
		case "", "posix":
			d = shell.DialectPosix
		case "cmd":
			d = shell.DialectCmd
		case "powershell":
			d = shell.DialectPowerShell
		default:
			return fmt.Errorf("unknown dialect %q", escapeDialect)
		}
		fmt.Println(strings.Join(shell.EscapeArguments(args, d), " "))
		return nil
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Print the resolved shell configuration for this platform",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := shell.Resolve()
		fmt.Printf("executable: %s\n", cfg.Executable)
		fmt.Printf("args:       %s\n", strings.Join(cfg.ArgsPrefix, " "))
		fmt.Printf("dialect:    %s\n", cfg.Dialect)
	},
}

func init() {
	escapeCmd.Flags().StringVar(&escapeDialect, "dialect", "posix", "Target dialect (posix|cmd|powershell)")
}
