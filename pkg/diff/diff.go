// Package diff compares the repository-managed dotfiles with whatever
// currently sits at their home-directory targets, so conflicts can be
// reviewed before the link step relocates them.
package diff

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
)

// State classifies one link target.
type State string

const (
	// StateLinked means the target is already a symlink; the link step
	// will leave it untouched.
	StateLinked State = "linked"
	// StateIdentical means a real file exists but its content matches
	// the repository version.
	StateIdentical State = "identical"
	// StateModified means a real file exists with different content;
	// the link step would back it up.
	StateModified State = "modified"
	// StateUntracked means a real file exists with no repository
	// counterpart.
	StateUntracked State = "untracked"
	// StateAbsent means nothing exists at the target yet.
	StateAbsent State = "absent"
)

// FileDiff is the comparison result for a single target path.
type FileDiff struct {
	Target string
	Source string
	State  State
	Pretty string // colored character diff, only for StateModified
}

// Dotfiles compares every configured link target against the dotfiles
// tree. Directory targets are walked file by file.
func Dotfiles(fs afero.Fs, home, root string, targets []string) ([]FileDiff, error) {
	var results []FileDiff
	for _, target := range targets {
		rel, err := filepath.Rel(home, target)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("link target %s is outside the home directory", target)
		}
		source := filepath.Join(root, rel)

		info, err := lstat(fs, target)
		if err != nil {
			if os.IsNotExist(err) {
				results = append(results, FileDiff{Target: target, Source: source, State: StateAbsent})
				continue
			}
			return nil, fmt.Errorf("inspecting %s: %w", target, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			results = append(results, FileDiff{Target: target, Source: source, State: StateLinked})
			continue
		}
		if info.IsDir() {
			dirResults, err := compareDir(fs, target, source)
			if err != nil {
				return nil, err
			}
			results = append(results, dirResults...)
			continue
		}
		fileDiff, err := compareFile(fs, target, source)
		if err != nil {
			return nil, err
		}
		results = append(results, fileDiff)
	}
	return results, nil
}

func compareDir(fs afero.Fs, targetDir, sourceDir string) ([]FileDiff, error) {
	var results []FileDiff
	err := afero.Walk(fs, targetDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(targetDir, path)
		if err != nil {
			return err
		}
		fileDiff, err := compareFile(fs, path, filepath.Join(sourceDir, rel))
		if err != nil {
			return err
		}
		results = append(results, fileDiff)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", targetDir, err)
	}
	return results, nil
}

func compareFile(fs afero.Fs, target, source string) (FileDiff, error) {
	result := FileDiff{Target: target, Source: source}

	sourceExists, err := afero.Exists(fs, source)
	if err != nil {
		return result, err
	}
	if !sourceExists {
		result.State = StateUntracked
		return result, nil
	}

	targetContent, err := afero.ReadFile(fs, target)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", target, err)
	}
	sourceContent, err := afero.ReadFile(fs, source)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", source, err)
	}

	if string(targetContent) == string(sourceContent) {
		result.State = StateIdentical
		return result, nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(sourceContent), string(targetContent), false)
	result.State = StateModified
	result.Pretty = dmp.DiffPrettyText(diffs)
	return result, nil
}

func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lstater, ok := fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
