package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"rig/pkg/log"
	"rig/pkg/system"
)

// FontStep installs an icon-patched monospace font family. Unlike the
// other steps it is idempotent by replacement: any previous install is
// removed and the archive is fetched and extracted fresh, so a re-run
// converges on the same file set rather than skipping.
type FontStep struct {
	Fs         afero.Fs
	Look       system.LookPath
	ArchiveURL string
	Family     string
	Dir        string
	Timeout    time.Duration
	// TempDir overrides where the downloaded archive lands. Empty means
	// the OS temp directory.
	TempDir string
}

func (s *FontStep) Name() string { return "fonts" }

func (s *FontStep) Description() string {
	return fmt.Sprintf("Install %s fonts", s.Family)
}

func (s *FontStep) Check(_ context.Context, _ system.CommandRunner) (bool, error) {
	// Clean-slate policy: always reinstall.
	return false, nil
}

func (s *FontStep) Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error {
	for _, tool := range []string{"curl", "unzip", "fc-cache"} {
		if _, err := requireTool(s.Look, tool); err != nil {
			return err
		}
	}

	if err := s.Fs.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("removing previous install %s: %w", s.Dir, err)
	}
	if err := s.Fs.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.Dir, err)
	}

	archive := s.archivePath()
	// The archive is a temporary artifact; remove it on every exit path.
	defer func() {
		if err := s.Fs.RemoveAll(archive); err != nil {
			logger.Warn("could not remove downloaded archive", "path", archive, "error", err)
		}
	}()

	logger.Info("downloading font archive", "url", s.ArchiveURL)
	fetchCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	out, err := runner.Run(fetchCtx, fmt.Sprintf("curl -fsSL -o %s %s", archive, s.ArchiveURL))
	cancel()
	if err != nil {
		return fmt.Errorf("downloading %s: %w: %s", s.ArchiveURL, err, out)
	}

	out, err = runner.Run(ctx, fmt.Sprintf("unzip -o %s -d %s", archive, s.Dir))
	if err != nil {
		return fmt.Errorf("extracting font archive: %w: %s", err, out)
	}

	kept, err := s.pruneNonFonts(logger)
	if err != nil {
		return err
	}
	if kept == 0 {
		return fmt.Errorf("%w from %s", ErrNoFonts, s.ArchiveURL)
	}
	logger.Info("fonts installed", "count", kept, "dir", s.Dir)

	out, err = runner.Run(ctx, fmt.Sprintf("fc-cache -f %s", s.Dir))
	if err != nil {
		return fmt.Errorf("refreshing font cache: %w: %s", err, out)
	}

	// Cache propagation can lag, so a missing family is only a warning.
	out, err = runner.Run(ctx, "fc-list : family")
	if err != nil {
		logger.Warn("could not list installed fonts", "error", err)
	} else if !strings.Contains(string(out), s.Family) {
		logger.Warn("font family not visible yet", "family", s.Family)
	}
	return nil
}

// pruneNonFonts deletes every extracted file that is not a font and
// returns how many font files remain.
func (s *FontStep) pruneNonFonts(logger log.Logger) (int, error) {
	kept := 0
	err := afero.Walk(s.Fs, s.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if isFontFile(path) {
			kept++
			return nil
		}
		logger.Debug("pruning non-font file", "path", path)
		return s.Fs.Remove(path)
	})
	if err != nil {
		return 0, fmt.Errorf("pruning %s: %w", s.Dir, err)
	}
	return kept, nil
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

func (s *FontStep) archivePath() string {
	dir := s.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, filepath.Base(s.ArchiveURL))
}

func (s *FontStep) ExecutionDetails() []string {
	return []string{
		fmt.Sprintf("remove: %s", s.Dir),
		fmt.Sprintf("run: curl -fsSL -o %s %s", s.archivePath(), s.ArchiveURL),
		fmt.Sprintf("run: unzip -o %s -d %s", s.archivePath(), s.Dir),
		"prune: non .ttf/.otf files",
		fmt.Sprintf("run: fc-cache -f %s", s.Dir),
	}
}
