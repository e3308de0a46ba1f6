package detect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andygrunwald/vdf"
	"github.com/cockroachdb/errors"
)

// steamGameDir is where Steam installs the game inside a library, relative
// to the library's steamapps directory.
const steamGameDir = "FINAL FANTASY XIV Online"

// steamResolver scans Steam's library registry for the game's app manifest
// and derives the game path and Proton prefix from the owning library.
type steamResolver struct {
	home string
}

func (r *steamResolver) Name() string { return string(SourceSteam) }

func (r *steamResolver) Resolve() (*Target, error) {
	libs, err := r.libraryFolders()
	if err != nil {
		// A missing or unreadable Steam install is not an error for the
		// overall scan, just a miss for this strategy.
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return nil, nil
		}
		return nil, err
	}

	for _, lib := range libs {
		steamapps := filepath.Join(lib, "steamapps")
		manifest := filepath.Join(steamapps, fmt.Sprintf("appmanifest_%d.acf", FFXIVSteamAppID))
		if _, err := os.Stat(manifest); err != nil {
			continue
		}

		return &Target{
			Source:     SourceSteam,
			GamePath:   filepath.Join(steamapps, "common", steamGameDir, "game"),
			WinePrefix: filepath.Join(steamapps, "compatdata", fmt.Sprint(FFXIVSteamAppID), "pfx"),
		}, nil
	}

	return nil, nil
}

// libraryFolders lists the Steam library roots that exist on disk, parsed
// from ~/.steam/steam/config/libraryfolders.vdf.
func (r *steamResolver) libraryFolders() ([]string, error) {
	vdfPath := filepath.Join(r.home, ".steam", "steam", "config", "libraryfolders.vdf")

	f, err := os.Open(vdfPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, errors.Wrap(err, "parsing libraryfolders.vdf")
	}

	folders, ok := parsed["libraryfolders"].(map[string]interface{})
	if !ok {
		return nil, errors.New("libraryfolders.vdf missing libraryfolders block")
	}

	var libs []string
	for _, v := range folders {
		entry, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		path, ok := entry["path"].(string)
		if !ok {
			continue
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			libs = append(libs, path)
		}
	}

	return libs, nil
}
