package detect

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/ini.v1"
)

// xlcoreResolver reads XLCore's launcher.ini. XLCore stores the game's base
// directory under the sectionless GamePath key; the actual game binaries
// live in its game/ subdirectory.
type xlcoreResolver struct {
	home string
}

func (r *xlcoreResolver) Name() string { return string(SourceXLCore) }

func (r *xlcoreResolver) Resolve() (*Target, error) {
	xlcoreDir := filepath.Join(r.home, ".xlcore")
	launcherINI := filepath.Join(xlcoreDir, "launcher.ini")

	if _, err := os.Stat(launcherINI); err != nil {
		return nil, nil
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{Loose: false, Insensitive: false}, launcherINI)
	if err != nil {
		return nil, errors.Wrap(err, "parsing launcher.ini")
	}

	gameBase := cfg.Section(ini.DefaultSection).Key("GamePath").String()
	if gameBase == "" {
		return nil, nil
	}

	target := &Target{
		Source:     SourceXLCore,
		GamePath:   filepath.Join(gameBase, "game"),
		WinePrefix: filepath.Join(xlcoreDir, "wineprefix"),
	}

	// XLCore keeps a separate prefix when "Managed Proton" is selected.
	protonPrefix := filepath.Join(xlcoreDir, "protonprefix")
	if info, err := os.Stat(protonPrefix); err == nil && info.IsDir() {
		target.ProtonPrefix = protonPrefix
	}

	return target, nil
}
