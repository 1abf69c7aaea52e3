package steps

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"rig/pkg/log"
	"rig/pkg/system"
)

// RepoStep registers the container engine vendor's package repository
// with dnf. Idempotent by precondition: once the repo definition file
// exists the step never runs again.
type RepoStep struct {
	Fs       afero.Fs
	Look     system.LookPath
	RepoURL  string
	RepoFile string
}

func (s *RepoStep) Name() string { return "docker-repo" }

func (s *RepoStep) Description() string {
	return fmt.Sprintf("Register package repository %s", s.RepoURL)
}

func (s *RepoStep) Check(_ context.Context, _ system.CommandRunner) (bool, error) {
	return afero.Exists(s.Fs, s.RepoFile)
}

func (s *RepoStep) Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error {
	if _, err := requireTool(s.Look, "dnf"); err != nil {
		return err
	}
	logger.Info("adding package repository", "url", s.RepoURL)
	out, err := runner.Run(ctx, fmt.Sprintf("sudo dnf -y config-manager --add-repo %s", s.RepoURL))
	if err != nil {
		return fmt.Errorf("adding repository %s: %w: %s", s.RepoURL, err, out)
	}
	return nil
}

func (s *RepoStep) ExecutionDetails() []string {
	return []string{fmt.Sprintf("run: sudo dnf -y config-manager --add-repo %s", s.RepoURL)}
}
