package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shellgate/shellgate/internal/config"
	"github.com/shellgate/shellgate/internal/match"
	"github.com/shellgate/shellgate/internal/policy"
	"github.com/shellgate/shellgate/internal/readonly"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <command line>",
	Short: "Evaluate a command line against the configured policy",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		line := strings.Join(args, " ")
		decision := policy.Check(line, cfg.Policy, nil, match.New())

		classifier := newClassifier(cfg)
		needsPermission := classifier.NeedsPermission(line)

		if checkJSON {
			out := struct {
				policy.Decision
				NeedsPermission bool `json:"needsPermission"`
			}{decision, needsPermission}
			return json.NewEncoder(os.Stdout).Encode(out)
		}

		switch {
		case decision.Allowed:
			fmt.Println("allowed")
		case decision.HardDenial:
			fmt.Printf("denied (hard): %s\n", decision.Reason)
		default:
			fmt.Printf("denied (needs approval): %s\n", decision.Reason)
		}
		if !needsPermission {
			fmt.Println("read-only: would not require permission")
		}

		if !decision.Allowed {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Emit the decision as JSON")
}

func newClassifier(cfg *config.Config) *readonly.Classifier {
	extra := make(map[string]bool, len(cfg.ReadOnlyRoots))
	for _, root := range cfg.ReadOnlyRoots {
		extra[root] = true
	}
	return &readonly.Classifier{Extra: extra}
}
