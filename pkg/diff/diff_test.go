package diff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rig/pkg/test"
)

func TestDotfilesStates(t *testing.T) {
	fs := test.MemFs(t)
	home := "/home/alice"
	root := "/home/alice/dots"

	test.WriteFile(t, fs, root+"/.zshrc", "managed\n")
	test.WriteFile(t, fs, root+"/.gitconfig", "managed\n")
	test.WriteFile(t, fs, home+"/.zshrc", "customized\n")
	test.WriteFile(t, fs, home+"/.gitconfig", "managed\n")
	test.WriteFile(t, fs, home+"/.vimrc", "not in the repo\n")

	results, err := Dotfiles(fs, home, root, []string{
		home + "/.zshrc",
		home + "/.gitconfig",
		home + "/.vimrc",
		home + "/.p10k.zsh",
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	byTarget := map[string]FileDiff{}
	for _, res := range results {
		byTarget[res.Target] = res
	}

	assert.Equal(t, StateModified, byTarget[home+"/.zshrc"].State)
	assert.NotEmpty(t, byTarget[home+"/.zshrc"].Pretty)
	assert.Equal(t, StateIdentical, byTarget[home+"/.gitconfig"].State)
	assert.Equal(t, StateUntracked, byTarget[home+"/.vimrc"].State)
	assert.Equal(t, StateAbsent, byTarget[home+"/.p10k.zsh"].State)
}

func TestDotfilesDirectoryTarget(t *testing.T) {
	fs := test.MemFs(t)
	home := "/home/alice"
	root := "/home/alice/dots"

	test.WriteFile(t, fs, root+"/.config/kitty/kitty.conf", "font_size 12\n")
	test.WriteFile(t, fs, home+"/.config/kitty/kitty.conf", "font_size 14\n")
	test.WriteFile(t, fs, home+"/.config/kitty/theme.conf", "local only\n")

	results, err := Dotfiles(fs, home, root, []string{home + "/.config/kitty"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byTarget := map[string]FileDiff{}
	for _, res := range results {
		byTarget[res.Target] = res
	}
	assert.Equal(t, StateModified, byTarget[home+"/.config/kitty/kitty.conf"].State)
	assert.Equal(t, StateUntracked, byTarget[home+"/.config/kitty/theme.conf"].State)
}

func TestDotfilesLinkedTarget(t *testing.T) {
	fs, tmp := test.OsFs(t)
	home := filepath.Join(tmp, "home")
	root := filepath.Join(tmp, "dots")
	test.MkDir(t, fs, home)
	test.WriteFile(t, fs, filepath.Join(root, ".zshrc"), "managed\n")
	require.NoError(t, os.Symlink(filepath.Join(root, ".zshrc"), filepath.Join(home, ".zshrc")))

	results, err := Dotfiles(fs, home, root, []string{filepath.Join(home, ".zshrc")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StateLinked, results[0].State)
}

func TestDotfilesTargetOutsideHome(t *testing.T) {
	fs := test.MemFs(t)
	_, err := Dotfiles(fs, "/home/alice", "/home/alice/dots", []string{"/etc/zshrc"})
	assert.ErrorContains(t, err, "outside the home directory")
}
