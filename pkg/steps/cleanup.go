package steps

import (
	"context"
	"fmt"

	"rig/pkg/log"
	"rig/pkg/system"
)

// CleanupStep removes orphaned dependencies and cached package data.
// Always runs last and is never gated by a precondition.
type CleanupStep struct {
	Look system.LookPath
}

func (s *CleanupStep) Name() string        { return "cleanup" }
func (s *CleanupStep) Description() string { return "Remove orphaned packages and cached data" }

func (s *CleanupStep) Check(_ context.Context, _ system.CommandRunner) (bool, error) {
	return false, nil
}

func (s *CleanupStep) Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error {
	if _, err := requireTool(s.Look, "dnf"); err != nil {
		return err
	}
	var firstErr error
	for _, command := range s.commands() {
		logger.Info("cleaning up", "command", command)
		out, err := runner.Run(ctx, command)
		if err != nil {
			logger.Error("cleanup command failed", "command", command, "error", err, "output", string(out))
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", command, err)
			}
		}
	}
	return firstErr
}

func (s *CleanupStep) commands() []string {
	return []string{
		"sudo dnf -y autoremove",
		"sudo dnf clean packages",
	}
}

func (s *CleanupStep) ExecutionDetails() []string {
	details := make([]string, 0, 2)
	for _, command := range s.commands() {
		details = append(details, "run: "+command)
	}
	return details
}
