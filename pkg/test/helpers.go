package test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// MemFs creates an in-memory filesystem for tests that never touch
// symlinks.
func MemFs(t *testing.T) afero.Fs {
	t.Helper()
	return afero.NewMemMapFs()
}

// OsFs creates a real tempdir-backed filesystem. Required for symlink
// behavior, which MemMapFs does not implement. Returns the fs and the
// temp root; cleanup is handled by t.TempDir.
func OsFs(t *testing.T) (afero.Fs, string) {
	t.Helper()
	root := t.TempDir()
	return afero.NewOsFs(), root
}

// WriteFile creates a file (and parents) with content.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

// MkDir creates a directory tree.
func MkDir(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(path, 0o755))
}

// AssertFileExists checks a file exists and, when expectedContent is
// non-empty, matches it.
func AssertFileExists(t *testing.T, fs afero.Fs, path, expectedContent string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	require.True(t, exists, "file %s should exist", path)

	if expectedContent != "" {
		content, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		require.Equal(t, expectedContent, string(content))
	}
}

// AssertFileNotExists checks that a path does not exist.
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	require.False(t, exists, "file %s should not exist", path)
}

// AssertRan checks the mock runner executed a command containing the
// substring.
func AssertRan(t *testing.T, runner *MockCommandRunner, substring string) {
	t.Helper()
	require.True(t, runner.Ran(substring), "expected a command containing %q, got %v", substring, runner.Commands)
}

// AssertNotRan checks no executed command contains the substring.
func AssertNotRan(t *testing.T, runner *MockCommandRunner, substring string) {
	t.Helper()
	require.False(t, runner.Ran(substring), "expected no command containing %q, got %v", substring, runner.Commands)
}
