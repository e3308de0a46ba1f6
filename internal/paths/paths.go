// Package paths centralizes the on-disk layout used by xivshade.
//
// All mutable state lives under a single working directory:
//
//	$XDG_DATA_HOME/xivshade/
//	├── backups/            timestamped copies of mutated config files
//	├── cache/              downloaded shader pack archives
//	├── reshade-installer/  clone of the ReShade install scripts
//	├── reshade/            ReShade data directory used by the install script
//	└── gposingway/         clone of the GPosingway collection
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "xivshade"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified
// permissions. If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string on error.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory (~/.config on Linux).
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory (~/.local/share on Linux).
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the directory holding xivshade's own config file.
// Returns: <ConfigHome>/xivshade/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// WorkDir returns the root working directory for all installer state.
// Returns: <DataHome>/xivshade/
func WorkDir() string {
	return filepath.Join(DataHome(), AppName)
}

// The accessors below take the working directory explicitly because the
// config file may override the XDG default; callers resolve the root once
// and derive every location from it.

// BackupDir returns the directory holding timestamped config backups.
// Returns: <workdir>/backups/
func BackupDir(workdir string) string {
	return filepath.Join(workdir, "backups")
}

// CacheDir returns the directory for downloaded shader pack archives.
// Returns: <workdir>/cache/
func CacheDir(workdir string) string {
	return filepath.Join(workdir, "cache")
}

// ReshadeInstallerDir returns the clone location of the ReShade install scripts.
// Returns: <workdir>/reshade-installer/
func ReshadeInstallerDir(workdir string) string {
	return filepath.Join(workdir, "reshade-installer")
}

// ReshadeDataDir returns the data directory handed to the ReShade install
// script via MAIN_PATH.
// Returns: <workdir>/reshade/
func ReshadeDataDir(workdir string) string {
	return filepath.Join(workdir, "reshade")
}

// GposingwayDir returns the clone location of the GPosingway collection.
// Returns: <workdir>/gposingway/
func GposingwayDir(workdir string) string {
	return filepath.Join(workdir, "gposingway")
}

// WinetricksCacheDLL returns the path where winetricks caches the native
// d3dcompiler_47.dll after an unattended download.
func WinetricksCacheDLL() string {
	return filepath.Join(Home(), ".cache", "winetricks", "d3dcompiler_47", "d3dcompiler_47.dll")
}
