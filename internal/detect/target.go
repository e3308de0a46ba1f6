package detect

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
)

// Source identifies which resolution strategy produced a Target.
type Source string

const (
	// SourceEnv means the FFXIV_PATH / WINE_PREFIX overrides were used.
	SourceEnv Source = "environment"

	// SourceSteam means the install was found via Steam's library manifests.
	SourceSteam Source = "steam"

	// SourceXLCore means the install was found via XLCore's launcher.ini.
	SourceXLCore Source = "xlcore"
)

// FFXIVSteamAppID is the Steam application ID for FINAL FANTASY XIV Online.
const FFXIVSteamAppID = 39210

// Target describes a resolved FFXIV installation. It is computed once per
// run and never mutated afterwards.
type Target struct {
	// Source names the strategy that found this install.
	Source Source

	// GamePath is the game binary directory (the one containing ffxiv_dx11.exe,
	// where ReShade DLLs and shader directories live).
	GamePath string

	// WinePrefix is the Wine/Proton compatibility prefix for the game.
	WinePrefix string

	// ProtonPrefix is XLCore's separate prefix used when "Managed Proton"
	// is selected. Empty for other sources.
	ProtonPrefix string
}

// System32 returns the windows/system32 directory inside the Wine prefix.
func (t *Target) System32() string {
	return filepath.Join(t.WinePrefix, "drive_c", "windows", "system32")
}

// ProtonSystem32 returns the system32 directory inside the Proton prefix,
// or an empty string when the target has no separate Proton prefix.
func (t *Target) ProtonSystem32() string {
	if t.ProtonPrefix == "" {
		return ""
	}
	return filepath.Join(t.ProtonPrefix, "drive_c", "windows", "system32")
}

// Validate checks that the game directory and prefix both exist and are
// writable. No installation step may run against a target that fails this.
func (t *Target) Validate() error {
	for _, dir := range []string{t.GamePath, t.WinePrefix} {
		info, err := os.Stat(dir)
		if err != nil {
			return errors.Wrapf(xserrors.ErrNoInstallFound, "%s does not exist", dir)
		}
		if !info.IsDir() {
			return errors.Wrapf(xserrors.ErrNoInstallFound, "%s is not a directory", dir)
		}
		if err := unix.Access(dir, unix.W_OK); err != nil {
			return errors.Wrapf(xserrors.ErrNoInstallFound, "%s is not writable", dir)
		}
	}
	return nil
}
