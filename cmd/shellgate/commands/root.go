// Package commands provides the CLI commands for shellgate.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shellgate/shellgate/internal/config"
	"github.com/shellgate/shellgate/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel  string
	prettyLog bool
	workDir   string
)

var rootCmd = &cobra.Command{
	Use:   "shellgate",
	Short: "shellgate - shell command safety and permission engine",
	Long: `shellgate decides whether shell commands are safe to run on behalf
of an automated agent: it splits compound command lines, detects command
and process substitution, and applies a configurable allow/block policy
before anything is spawned.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is not an error.
		_ = godotenv.Load()

		logging.Init(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Pretty: prettyLog,
		})
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&prettyLog, "pretty", false, "Human-readable log output")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Working directory (defaults to current)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("shellgate %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(rootsCmd)
	rootCmd.AddCommand(escapeCmd)
	rootCmd.AddCommand(shellCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveWorkDir returns the --dir flag or the current directory.
func resolveWorkDir() (string, error) {
	if workDir != "" {
		return workDir, nil
	}
	return os.Getwd()
}

// loadConfig loads the layered configuration for the working directory.
func loadConfig() (*config.Config, string, error) {
	dir, err := resolveWorkDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}
