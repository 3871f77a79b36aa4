package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shellgate/shellgate/internal/approval"
	"github.com/shellgate/shellgate/internal/event"
	"github.com/shellgate/shellgate/internal/execute"
)

var (
	runTimeout time.Duration
	runYes     bool
)

var runCmd = &cobra.Command{
	Use:   "run <command line>",
	Short: "Check a command line and execute it if authorized",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dir, err := loadConfig()
		if err != nil {
			return err
		}

		line := strings.Join(args, " ")

		opts := []execute.Option{
			execute.WithPolicy(cfg.Policy),
			execute.WithClassifier(newClassifier(cfg)),
		}
		if cfg.TimeoutMS > 0 {
			opts = append(opts, execute.WithTimeout(time.Duration(cfg.TimeoutMS)*time.Millisecond))
		}

		var broker *approval.Broker
		if !runYes {
			broker = approval.NewBroker()
			opts = append(opts, execute.WithBroker(broker))
			unsub := event.Subscribe(event.ApprovalRequired, promptApproval(broker))
			defer unsub()
		}

		runner := execute.NewRunner(dir, opts...)
		result, err := runner.Run(cmd.Context(), "cli", line, runTimeout)
		if err != nil {
			return err
		}

		fmt.Print(result.Output)
		if result.ExitCode != 0 {
			os.Exit(result.ExitCode)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-command timeout (default 2m)")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip interactive approval (soft denials fail)")
}

// promptApproval answers approval.required events from the terminal.
func promptApproval(broker *approval.Broker) event.Subscriber {
	return func(ev event.Event) {
		data, ok := ev.Data.(event.ApprovalRequiredData)
		if !ok {
			return
		}

		fmt.Fprintf(os.Stderr, "allow %q? [y]es once / [a]lways / [n]o: ", data.Command)
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			broker.Respond(data.ID, "reject")
			return
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			broker.Respond(data.ID, "once")
		case "a", "always":
			broker.Respond(data.ID, "always")
		default:
			broker.Respond(data.ID, "reject")
		}
	}
}
