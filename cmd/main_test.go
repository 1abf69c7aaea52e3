package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rig/pkg/system"
	"rig/pkg/test"
)

// setupCmdTest swaps the live collaborators for mocks and restores them
// when the test finishes.
func setupCmdTest(t *testing.T) (*test.MockCommandRunner, afero.Fs) {
	t.Helper()

	origFs := system.AppFs
	origRunner := cmdRunner
	origLook := lookPath
	origUser := currentUsername
	t.Cleanup(func() {
		system.AppFs = origFs
		cmdRunner = origRunner
		lookPath = origLook
		currentUsername = origUser
	})

	// Flag state persists on the package-level rootCmd between Execute
	// calls, so every test starts from a clean slate.
	dryRun = false
	strictExit = false
	diffAll = false
	cfgFile = ""
	dotfilesRoot = "."
	logLevel = "info"
	onlySteps, skipSteps = nil, nil
	for _, name := range []string{"only", "skip"} {
		if sv, ok := applyCmd.Flags().Lookup(name).Value.(interface{ Replace([]string) error }); ok {
			require.NoError(t, sv.Replace(nil))
		}
	}

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dots", 0o755))
	system.AppFs = fs

	runner := test.NewMockCommandRunner()
	cmdRunner = runner
	lookPath = test.MockLookPath(nil)
	currentUsername = func() (string, error) { return "alice", nil }
	return runner, fs
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestApplyDryRun(t *testing.T) {
	runner, _ := setupCmdTest(t)

	out, err := execute(t, "apply", "--dry-run", "--dotfiles-root", "/dots")
	require.NoError(t, err)

	assert.Contains(t, out, "Dry run enabled")
	assert.Contains(t, out, "Register package repository")
	assert.Contains(t, out, "Install OS packages")
	assert.Contains(t, out, "stow --target=")
	assert.Empty(t, runner.Commands, "dry run must not execute anything")
}

func TestApplyOnlySelection(t *testing.T) {
	setupCmdTest(t)

	out, err := execute(t, "apply", "--dry-run", "--dotfiles-root", "/dots", "--only", "cleanup")
	require.NoError(t, err)

	assert.Contains(t, out, "sudo dnf -y autoremove")
	assert.NotContains(t, out, "Install OS packages")
}

func TestApplyUnknownStep(t *testing.T) {
	setupCmdTest(t)

	_, err := execute(t, "apply", "--dry-run", "--dotfiles-root", "/dots", "--only", "nope")
	assert.ErrorContains(t, err, "unknown step: nope")
}

func TestApplyMissingDotfilesRoot(t *testing.T) {
	setupCmdTest(t)

	_, err := execute(t, "apply", "--dry-run", "--dotfiles-root", "/does-not-exist")
	assert.Error(t, err)
}

func TestApplyStrictExitsNonZero(t *testing.T) {
	setupCmdTest(t)

	// Every tool is missing, so steps are skipped, which is not a
	// failure even under --strict.
	out, err := execute(t, "apply", "--strict", "--dotfiles-root", "/dots", "--only", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "0 failed")
}

func TestListShowsPreconditionState(t *testing.T) {
	_, fs := setupCmdTest(t)

	out, err := execute(t, "list", "--dotfiles-root", "/dots")
	require.NoError(t, err)
	assert.Contains(t, out, "docker-repo")
	assert.Contains(t, out, "would run")

	// With the repo file present, the step reports as satisfied.
	require.NoError(t, afero.WriteFile(fs, "/etc/yum.repos.d/docker-ce.repo", []byte("[docker-ce]"), 0o644))
	out, err = execute(t, "list", "--dotfiles-root", "/dots")
	require.NoError(t, err)
	assert.Contains(t, out, "satisfied")
}

func TestDiffNoConflicts(t *testing.T) {
	setupCmdTest(t)

	out, err := execute(t, "diff", "--dotfiles-root", "/dots")
	require.NoError(t, err)
	assert.Contains(t, out, "No conflicting dotfiles found.")
}

func TestInvalidLogLevel(t *testing.T) {
	setupCmdTest(t)

	_, err := execute(t, "list", "--dotfiles-root", "/dots", "--log-level", "chatty")
	assert.ErrorContains(t, err, "invalid log level")
}
