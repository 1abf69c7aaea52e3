// Package config holds the provisioning configuration: package sets,
// fetch URLs and the filesystem locations every step reconciles against.
// Values are resolved once at startup and passed into steps explicitly;
// nothing reads the environment ad hoc after Load returns.
package config

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Plugin is a zsh framework add-on fetched by git clone.
type Plugin struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Dir  string `yaml:"dir"` // relative to the framework install dir
}

// Config is the desired target state for a provisioning run.
type Config struct {
	// Base directories, resolved from HOME and the XDG overrides with
	// the usual fallbacks (~/.config, ~/.local/share).
	Home       string `yaml:"-"`
	ConfigHome string `yaml:"-"`
	DataHome   string `yaml:"-"`

	// DotfilesRoot is the stow source tree. It is an explicit, validated
	// setting rather than the ambient working directory.
	DotfilesRoot string `yaml:"-"`

	OSPackages        []string `yaml:"os_packages"`
	ContainerPackages []string `yaml:"container_packages"`
	FlatpakApps       []string `yaml:"flatpak_apps"`

	DockerRepoURL    string `yaml:"docker_repo_url"`
	DockerRepoFile   string `yaml:"docker_repo_file"`
	ContainerService string `yaml:"container_service"`

	OhMyZshDir          string   `yaml:"oh_my_zsh_dir"`
	OhMyZshInstallerURL string   `yaml:"oh_my_zsh_installer_url"`
	ZshPlugins          []Plugin `yaml:"zsh_plugins"`

	FontArchiveURL string `yaml:"font_archive_url"`
	FontFamily     string `yaml:"font_family"`
	FontsDir       string `yaml:"fonts_dir"`

	// LinkTargets are the well-known home paths the stow invocation is
	// expected to touch; real files found there are backed up first.
	LinkTargets []string `yaml:"link_targets"`

	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// Load builds the configuration from the embedded defaults, an optional
// override file and the process environment. dotfilesRoot must point at
// the stow source tree; overridePath may be empty.
func Load(fs afero.Fs, overridePath, dotfilesRoot string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("decoding built-in defaults: %w", err)
	}

	if overridePath != "" {
		content, err := afero.ReadFile(fs, overridePath)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", overridePath, err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", overridePath, err)
		}
	}

	cfg.Home = xdg.Home
	cfg.ConfigHome = xdg.ConfigHome
	cfg.DataHome = xdg.DataHome
	cfg.DotfilesRoot = dotfilesRoot

	cfg.OhMyZshDir = cfg.Expand(cfg.OhMyZshDir)
	cfg.FontsDir = cfg.Expand(cfg.FontsDir)
	for i, target := range cfg.LinkTargets {
		cfg.LinkTargets[i] = cfg.Expand(target)
	}

	if err := cfg.Validate(fs); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Expand resolves the ~ and XDG tokens used in path settings.
func (c *Config) Expand(path string) string {
	switch {
	case path == "~":
		return c.Home
	case strings.HasPrefix(path, "~/"):
		return c.Home + path[1:]
	case strings.HasPrefix(path, "$XDG_CONFIG_HOME"):
		return c.ConfigHome + strings.TrimPrefix(path, "$XDG_CONFIG_HOME")
	case strings.HasPrefix(path, "$XDG_DATA_HOME"):
		return c.DataHome + strings.TrimPrefix(path, "$XDG_DATA_HOME")
	}
	return path
}

// Validate checks the parts of the configuration a run cannot proceed
// without. Package lists may be empty; their steps just no-op.
func (c *Config) Validate(fs afero.Fs) error {
	if c.Home == "" {
		return fmt.Errorf("home directory could not be determined")
	}
	if c.DotfilesRoot == "" {
		return fmt.Errorf("dotfiles root is required")
	}
	info, err := fs.Stat(c.DotfilesRoot)
	if err != nil {
		return fmt.Errorf("dotfiles root %s: %w", c.DotfilesRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("dotfiles root %s is not a directory", c.DotfilesRoot)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", c.FetchTimeoutSeconds)
	}
	return nil
}

// FetchTimeout bounds every network-dependent external command.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
