// Package steps contains the concrete provisioning steps: repository
// registration, package installation, shell environment, fonts, dotfile
// linking and cache cleanup. Each step is independently idempotent; the
// ordering lives in All.
package steps

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"rig/pkg/config"
	"rig/pkg/step"
	"rig/pkg/system"
)

// ErrNoFonts marks a font installation that downloaded and extracted
// cleanly but produced zero usable font files.
var ErrNoFonts = errors.New("no font files extracted")

// All builds the fixed, ordered provisioning sequence. username is the
// account whose login shell is reconciled.
func All(cfg *config.Config, fs afero.Fs, look system.LookPath, username string) []step.Step {
	return []step.Step{
		&RepoStep{
			Fs:       fs,
			Look:     look,
			RepoURL:  cfg.DockerRepoURL,
			RepoFile: cfg.DockerRepoFile,
		},
		&PackageStep{
			StepName: "os-packages",
			Desc:     "Install OS packages",
			Look:     look,
			Packages: cfg.OSPackages,
		},
		&PackageStep{
			StepName: "container-packages",
			Desc:     "Install container engine packages",
			Look:     look,
			Packages: cfg.ContainerPackages,
		},
		&ServiceStep{
			Look:    look,
			Service: cfg.ContainerService,
		},
		&FlatpakStep{
			Look: look,
			Apps: cfg.FlatpakApps,
		},
		&ShellStep{
			Fs:           fs,
			Look:         look,
			Username:     username,
			InstallDir:   cfg.OhMyZshDir,
			InstallerURL: cfg.OhMyZshInstallerURL,
			Plugins:      cfg.ZshPlugins,
			Timeout:      cfg.FetchTimeout(),
		},
		&FontStep{
			Fs:         fs,
			Look:       look,
			ArchiveURL: cfg.FontArchiveURL,
			Family:     cfg.FontFamily,
			Dir:        cfg.FontsDir,
			Timeout:    cfg.FetchTimeout(),
		},
		&DotfilesStep{
			Fs:      fs,
			Look:    look,
			Home:    cfg.Home,
			Root:    cfg.DotfilesRoot,
			Targets: cfg.LinkTargets,
		},
		&CleanupStep{
			Look: look,
		},
	}
}

// requireTool resolves a tool path or returns a step.ErrToolMissing
// wrapped error so the runner records the step as Skipped.
func requireTool(look system.LookPath, tool string) (string, error) {
	path, err := look(tool)
	if err != nil {
		return "", fmt.Errorf("%s: %w", tool, step.ErrToolMissing)
	}
	return path, nil
}
