package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"

	"rig/pkg/config"
	"rig/pkg/log"
	"rig/pkg/system"
)

var (
	cfgFile      string
	dotfilesRoot string
	logLevel     string
	logger       log.Logger

	// Swapped out in tests.
	cmdRunner system.CommandRunner = &system.LiveCommandRunner{}
	lookPath  system.LookPath      = system.ExecLookPath

	rootCmd = &cobra.Command{
		Use:   "rig",
		Short: "rig provisions a personal Linux workstation",
		Long: `rig runs an ordered checklist of idempotent provisioning steps against
the local machine: package repositories, OS and Flatpak packages, the
container engine, a zsh environment, Nerd Fonts and symlinked dotfiles.
Every step is safe to re-run and a failing step never stops the rest.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q", logLevel)
			}
			logger = log.NewZerologLogger(level, cmd.ErrOrStderr())
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the dotfiles root and builds the run configuration.
func loadConfig() (*config.Config, error) {
	absRoot, err := filepath.Abs(dotfilesRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving dotfiles root: %w", err)
	}
	return config.Load(system.AppFs, cfgFile, absRoot)
}

// currentUsername is a var so command tests can pin the user.
var currentUsername = func() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML file overriding the built-in defaults")
	rootCmd.PersistentFlags().StringVar(&dotfilesRoot, "dotfiles-root", ".", "root of the dotfiles tree to stow")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
