package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"rig/pkg/log"
	"rig/pkg/system"
)

// Backup records a pre-existing filesystem entry that collided with an
// intended symlink and where it was moved.
type Backup struct {
	Path       string
	BackupPath string
}

// DotfilesStep materializes the dotfiles tree into the home directory
// with stow. Real files found at known link targets are moved into a
// timestamped backup directory first; targets that are already symlinks
// are left alone, so a second run performs no backups.
type DotfilesStep struct {
	Fs      afero.Fs
	Look    system.LookPath
	Home    string
	Root    string
	Targets []string
	// Now is injectable for deterministic backup directory names.
	Now func() time.Time

	backups []Backup
}

func (s *DotfilesStep) Name() string { return "dotfiles" }

func (s *DotfilesStep) Description() string {
	return fmt.Sprintf("Link dotfiles from %s into %s", s.Root, s.Home)
}

func (s *DotfilesStep) Check(_ context.Context, _ system.CommandRunner) (bool, error) {
	// Stow converges on its own; the interesting work (conflict backup)
	// is guarded per target inside Apply.
	return false, nil
}

func (s *DotfilesStep) Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error {
	if _, err := requireTool(s.Look, "stow"); err != nil {
		return err
	}

	if err := s.backupConflicts(logger); err != nil {
		return err
	}

	out, err := runner.Run(ctx, fmt.Sprintf("cd %s && stow --target=%s .", s.Root, s.Home))
	if err != nil {
		return fmt.Errorf("stowing dotfiles: %w: %s", err, out)
	}

	if len(s.backups) > 0 {
		logger.Info("pre-existing files were backed up",
			"count", len(s.backups), "dir", filepath.Dir(s.backups[0].BackupPath))
	}
	return nil
}

// backupConflicts moves every real (non-symlink) entry at a link target
// into the backup directory, which is created lazily on the first
// conflict. Existing symlinks and absent paths are untouched.
func (s *DotfilesStep) backupConflicts(logger log.Logger) error {
	backupDir := filepath.Join(s.Home, ".dotfiles-backup-"+s.now().Format("20060102-150405"))
	s.backups = nil

	for _, target := range s.Targets {
		info, err := s.lstat(target)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("inspecting %s: %w", target, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			logger.Debug("already linked, leaving untouched", "path", target)
			continue
		}

		if len(s.backups) == 0 {
			if err := s.Fs.MkdirAll(backupDir, 0o755); err != nil {
				return fmt.Errorf("creating backup dir %s: %w", backupDir, err)
			}
		}
		backupPath := filepath.Join(backupDir, filepath.Base(target))
		logger.Info("backing up conflicting file", "path", target, "backup", backupPath)
		if err := s.Fs.Rename(target, backupPath); err != nil {
			return fmt.Errorf("backing up %s: %w", target, err)
		}
		s.backups = append(s.backups, Backup{Path: target, BackupPath: backupPath})
	}
	return nil
}

// Backups returns the conflicts relocated during the last Apply.
func (s *DotfilesStep) Backups() []Backup {
	return s.backups
}

// lstat avoids following symlinks where the filesystem supports it.
// MemMapFs cannot represent symlinks at all, so plain Stat is an
// acceptable fallback there.
func (s *DotfilesStep) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := s.Fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return s.Fs.Stat(path)
}

func (s *DotfilesStep) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DotfilesStep) ExecutionDetails() []string {
	details := make([]string, 0, len(s.Targets)+1)
	for _, target := range s.Targets {
		details = append(details, fmt.Sprintf("backup if real file: %s", target))
	}
	details = append(details, fmt.Sprintf("run: cd %s && stow --target=%s .", s.Root, s.Home))
	return details
}
