package steps

import (
	"context"
	"fmt"

	"rig/pkg/log"
	"rig/pkg/system"
)

// PackageStep installs a fixed list of packages with dnf, one at a time
// so each package's outcome is reported independently. Already-installed
// packages are a no-op for dnf itself, so there is no precondition.
type PackageStep struct {
	StepName string
	Desc     string
	Look     system.LookPath
	Packages []string
}

func (s *PackageStep) Name() string        { return s.StepName }
func (s *PackageStep) Description() string { return s.Desc }

func (s *PackageStep) Check(_ context.Context, _ system.CommandRunner) (bool, error) {
	return len(s.Packages) == 0, nil
}

func (s *PackageStep) Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error {
	if _, err := requireTool(s.Look, "dnf"); err != nil {
		return err
	}
	var failed []string
	for _, pkg := range s.Packages {
		logger.Info("installing package", "package", pkg)
		out, err := runner.Run(ctx, fmt.Sprintf("sudo dnf install -y %s", pkg))
		if err != nil {
			logger.Error("package install failed", "package", pkg, "error", err, "output", string(out))
			failed = append(failed, pkg)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d packages failed to install: %v", len(failed), len(s.Packages), failed)
	}
	return nil
}

func (s *PackageStep) ExecutionDetails() []string {
	details := make([]string, 0, len(s.Packages))
	for _, pkg := range s.Packages {
		details = append(details, fmt.Sprintf("run: sudo dnf install -y %s", pkg))
	}
	return details
}

// FlatpakStep installs application IDs from Flathub, registering the
// remote first. Both the remote-add and per-app installs are idempotent
// at the tool level.
type FlatpakStep struct {
	Look system.LookPath
	Apps []string
}

const flathubRepo = "https://dl.flathub.org/repo/flathub.flatpakrepo"

func (s *FlatpakStep) Name() string        { return "flatpak-apps" }
func (s *FlatpakStep) Description() string { return "Install Flatpak applications" }

func (s *FlatpakStep) Check(_ context.Context, _ system.CommandRunner) (bool, error) {
	return len(s.Apps) == 0, nil
}

func (s *FlatpakStep) Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error {
	if _, err := requireTool(s.Look, "flatpak"); err != nil {
		return err
	}
	out, err := runner.Run(ctx, fmt.Sprintf("flatpak remote-add --if-not-exists flathub %s", flathubRepo))
	if err != nil {
		return fmt.Errorf("adding flathub remote: %w: %s", err, out)
	}
	var failed []string
	for _, app := range s.Apps {
		logger.Info("installing flatpak", "app", app)
		out, err := runner.Run(ctx, fmt.Sprintf("flatpak install -y --noninteractive flathub %s", app))
		if err != nil {
			logger.Error("flatpak install failed", "app", app, "error", err, "output", string(out))
			failed = append(failed, app)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d flatpaks failed to install: %v", len(failed), len(s.Apps), failed)
	}
	return nil
}

func (s *FlatpakStep) ExecutionDetails() []string {
	details := []string{fmt.Sprintf("run: flatpak remote-add --if-not-exists flathub %s", flathubRepo)}
	for _, app := range s.Apps {
		details = append(details, fmt.Sprintf("run: flatpak install -y --noninteractive flathub %s", app))
	}
	return details
}
