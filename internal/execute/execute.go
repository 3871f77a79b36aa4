// Package execute spawns shell commands once they have cleared the
// permission engine. It owns timeouts, process-group cleanup, and output
// capture; the go/no-go decision itself lives in internal/policy.
package execute

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shellgate/shellgate/internal/approval"
	"github.com/shellgate/shellgate/internal/event"
	"github.com/shellgate/shellgate/internal/match"
	"github.com/shellgate/shellgate/internal/policy"
	"github.com/shellgate/shellgate/internal/readonly"
	"github.com/shellgate/shellgate/internal/shell"
)

const (
	DefaultTimeout  = 120 * time.Second
	MaxTimeout      = 10 * time.Minute
	MaxOutputLength = 30000
)

// ErrDenied wraps a hard permission denial.
var ErrDenied = errors.New("command denied")

// DeniedError carries the decision behind a refusal to execute.
type DeniedError struct {
	Decision policy.Decision
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("command denied: %s", e.Decision.Reason)
}

func (e *DeniedError) Unwrap() error { return ErrDenied }

// Result is the outcome of one executed command.
type Result struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exitCode"`
	TimedOut bool   `json:"timedOut"`
}

// Runner checks and executes command lines.
type Runner struct {
	workDir    string
	shellCfg   shell.Config
	pol        policy.Policy
	matcher    policy.Matcher
	broker     *approval.Broker
	classifier *readonly.Classifier
	timeout    time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithPolicy sets the allow/block policy.
func WithPolicy(pol policy.Policy) Option {
	return func(r *Runner) { r.pol = pol }
}

// WithMatcher overrides the default pattern matcher.
func WithMatcher(m policy.Matcher) Option {
	return func(r *Runner) { r.matcher = m }
}

// WithBroker enables the interactive approval flow. With a broker set,
// the runner is in default-deny mode: commands must be globally allowed,
// read-only, or approved for the session.
func WithBroker(b *approval.Broker) Option {
	return func(r *Runner) { r.broker = b }
}

// WithClassifier lets read-only command lines skip the permission check.
func WithClassifier(c *readonly.Classifier) Option {
	return func(r *Runner) { r.classifier = c }
}

// WithTimeout sets the default per-command timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner creates a runner working in workDir.
func NewRunner(workDir string, opts ...Option) *Runner {
	r := &Runner{
		workDir:  workDir,
		shellCfg: shell.Resolve(),
		matcher:  match.New(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check runs the permission engine for a command line without executing
// it.
func (r *Runner) Check(sessionID, command string) policy.Decision {
	return policy.Check(command, r.pol, r.sessionPatterns(sessionID), r.matcher)
}

// Run checks command and, if authorized, executes it through the
// configured shell. Soft denials go to the approval broker when one is
// configured; hard denials and rejections come back as *DeniedError or
// *approval.RejectedError.
func (r *Runner) Run(ctx context.Context, sessionID, command string, timeout time.Duration) (*Result, error) {
	if r.classifier == nil || r.classifier.NeedsPermission(command) {
		decision := r.Check(sessionID, command)
		if err := r.resolve(ctx, sessionID, command, decision); err != nil {
			return nil, err
		}
	}

	return r.spawn(ctx, command, timeout)
}

func (r *Runner) resolve(ctx context.Context, sessionID, command string, decision policy.Decision) error {
	if decision.Allowed {
		return nil
	}

	if decision.HardDenial {
		log.Warn().Str("command", command).Str("reason", decision.Reason).Msg("command blocked")
		event.Publish(event.Event{
			Type: event.CommandBlocked,
			Data: event.CommandBlockedData{Command: command, Reason: decision.Reason},
		})
		return &DeniedError{Decision: decision}
	}

	if r.broker == nil {
		return &DeniedError{Decision: decision}
	}

	// Soft denial: hand the not-yet-approved commands to the user.
	return r.broker.Ask(ctx, approval.Request{
		SessionID: sessionID,
		Command:   command,
		Patterns:  match.SuggestPatterns(command),
	})
}

func (r *Runner) spawn(ctx context.Context, command string, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		timeout = r.timeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := r.shellCfg.CommandArgs(command)
	cmd := exec.CommandContext(cmdCtx, r.shellCfg.Executable, args...)
	cmd.Dir = r.workDir
	cmd.Env = os.Environ()
	setupProcessGroup(cmd)

	log.Debug().Str("shell", r.shellCfg.Executable).Str("command", command).Msg("executing")

	output, err := cmd.CombinedOutput()
	timedOut := errors.Is(cmdCtx.Err(), context.DeadlineExceeded)

	text := string(output)
	if len(text) > MaxOutputLength {
		text = text[:MaxOutputLength] + "\n\n(output truncated)"
	}
	if timedOut {
		text += fmt.Sprintf("\n\n(command timed out after %v)", timeout)
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil && !timedOut {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("spawn %s: %w", r.shellCfg.Executable, err)
		}
	}

	return &Result{Output: text, ExitCode: exitCode, TimedOut: timedOut}, nil
}

// sessionPatterns returns the session allowlist, nil when no broker is
// configured so the policy engine stays in default-allow mode.
func (r *Runner) sessionPatterns(sessionID string) []string {
	if r.broker == nil {
		return nil
	}
	return r.broker.SessionPatterns(sessionID)
}

// LookPath resolves an executable name on the search path.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
