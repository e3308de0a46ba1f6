// Package config provides configuration management for xivshade using Viper.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/xivshade/internal/paths"
	"github.com/thoreinstein/xivshade/pkg/fileutil"
)

// AppName is the application name used for config file naming and env prefix.
const AppName = "xivshade"

// Defaults the installer ships with. Users rarely need to change any of
// these; they exist so a pinned ReShade version or a repo fork can be
// swapped without a rebuild.
const (
	DefaultReshadeVersion      = "6.5.1"
	DefaultReshadeInstallerURL = "https://github.com/kevinlekiller/reshade-steam-proton.git"
	DefaultGposingwayURL       = "https://github.com/gposingway/gposingway.git"
	DefaultBackupRetention     = 5
)

// ShaderPack describes an optional downloadable shader package.
type ShaderPack struct {
	// Name identifies the pack (also used as its cache directory name).
	Name string `mapstructure:"name" yaml:"name"`

	// URL is the zip archive to download.
	URL string `mapstructure:"url" yaml:"url"`

	// ExtractDir is the top-level directory inside the archive.
	ExtractDir string `mapstructure:"extract_dir" yaml:"extract_dir"`
}

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// WorkDir overrides the default XDG-derived working directory.
	WorkDir string `mapstructure:"workdir" yaml:"workdir"`

	// ReshadeVersion is the pinned ReShade release to install.
	ReshadeVersion string `mapstructure:"reshade_version" yaml:"reshade_version"`

	// ReshadeAddonSupport installs the addon-support build, which the
	// GPosingway collection requires.
	ReshadeAddonSupport bool `mapstructure:"reshade_addon_support" yaml:"reshade_addon_support"`

	// ReshadeInstallerURL is the git repo providing reshade-linux.sh.
	ReshadeInstallerURL string `mapstructure:"reshade_installer_url" yaml:"reshade_installer_url"`

	// GposingwayURL is the git repo providing shaders, presets, and configs.
	GposingwayURL string `mapstructure:"gposingway_url" yaml:"gposingway_url"`

	// ShaderPacks are optional zip packages copied into the game's shader tree.
	ShaderPacks []ShaderPack `mapstructure:"shader_packs" yaml:"shader_packs"`

	// ExtraEffectPaths are additional Wine-side shader search paths appended
	// to ReShade's EffectSearchPaths list.
	ExtraEffectPaths []string `mapstructure:"extra_effect_paths" yaml:"extra_effect_paths"`

	// BackupRetention is the number of installer runs whose backups are kept.
	BackupRetention int `mapstructure:"backup_retention" yaml:"backup_retention"`
}

// DefaultShaderPacks returns the iMMERSE and METEOR packs needed for
// ipsuShade preset compatibility.
func DefaultShaderPacks() []ShaderPack {
	return []ShaderPack{
		{
			Name:       "immerse",
			URL:        "https://github.com/martymcmodding/iMMERSE/archive/refs/heads/master.zip",
			ExtractDir: "iMMERSE-main",
		},
		{
			Name:       "meteor",
			URL:        "https://github.com/martymcmodding/METEOR/archive/refs/heads/master.zip",
			ExtractDir: "METEOR-main",
		},
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support: XIVSHADE_RESHADE_VERSION etc.
	viper.SetEnvPrefix("XIVSHADE")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("workdir", paths.WorkDir())
	viper.SetDefault("reshade_version", DefaultReshadeVersion)
	viper.SetDefault("reshade_addon_support", true)
	viper.SetDefault("reshade_installer_url", DefaultReshadeInstallerURL)
	viper.SetDefault("gposingway_url", DefaultGposingwayURL)
	viper.SetDefault("backup_retention", DefaultBackupRetention)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if len(cfg.ShaderPacks) == 0 {
		cfg.ShaderPacks = DefaultShaderPacks()
	}

	return &cfg, nil
}

// DefaultConfigPath returns the canonical location of the config file.
func DefaultConfigPath() string {
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}

// WriteDefault writes a starter config file with all defaults filled in.
// Fails if the file already exists unless force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if !force {
		if exists(path) {
			return errors.Newf("config file already exists at %s", path)
		}
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	cfg := Config{
		Version:             1,
		WorkDir:             paths.WorkDir(),
		ReshadeVersion:      DefaultReshadeVersion,
		ReshadeAddonSupport: true,
		ReshadeInstallerURL: DefaultReshadeInstallerURL,
		GposingwayURL:       DefaultGposingwayURL,
		ShaderPacks:         DefaultShaderPacks(),
		BackupRetention:     DefaultBackupRetention,
	}

	return fileutil.AtomicWriteYAML(path, cfg)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
