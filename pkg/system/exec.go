package system

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner defines an interface for running external commands.
// This allows for mocking in tests; provisioning decision logic never
// shells out directly.
type CommandRunner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// LiveCommandRunner is an implementation of CommandRunner that runs
// commands on the live system through the shell. Privileged commands
// carry their own sudo prefix, so every elevated operation triggers its
// own credential check instead of relying on an upfront grant.
type LiveCommandRunner struct{}

// Run executes the given command and returns its combined output. The
// context bounds the command's lifetime; network-bound steps pass a
// deadline so a hung download fails the step instead of the whole run.
func (r *LiveCommandRunner) Run(ctx context.Context, command string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return out, fmt.Errorf("command timed out: %s", command)
	}
	return out, err
}

// LookPath reports whether an external tool is available. Separated out
// so step preconditions can be exercised without a real PATH.
type LookPath func(tool string) (string, error)

// ExecLookPath is the live LookPath backed by the process environment.
func ExecLookPath(tool string) (string, error) {
	return exec.LookPath(tool)
}
