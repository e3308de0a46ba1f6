package steps

import (
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/pipeline"
	"github.com/thoreinstein/xivshade/pkg/fileutil"
)

// configNames are the collection-provided configuration files seeded into
// the game directory. Seeding happens once; existing files are left alone so
// user tuning survives, and the runner backs them up before the copy.
var configNames = []string{"ReShade.ini", "ReShadePreset.ini"}

// PresetConfig copies the collection's ReShade configuration into the game
// directory.
type PresetConfig struct{}

// NewPresetConfig returns the step.
func NewPresetConfig() *PresetConfig { return &PresetConfig{} }

func (s *PresetConfig) Name() string { return "presetconfig" }

func (s *PresetConfig) Check(env *pipeline.Env) (bool, error) {
	for _, name := range configNames {
		if !fileExists(filepath.Join(env.Target.GamePath, name)) {
			return false, nil
		}
	}
	return true, nil
}

func (s *PresetConfig) Mutates(env *pipeline.Env) []string {
	var files []string
	for _, name := range configNames {
		files = append(files, filepath.Join(env.Target.GamePath, name))
	}
	return files
}

func (s *PresetConfig) Apply(env *pipeline.Env) error {
	repo := gposingwayDir(env)
	for _, name := range configNames {
		src := filepath.Join(repo, name)
		if !fileExists(src) {
			return errors.Newf("collection is missing %s; unexpected repository layout", src)
		}

		dst := filepath.Join(env.Target.GamePath, name)
		if fileExists(dst) {
			env.Log.Debug("keeping existing config", "file", dst)
			continue
		}
		if err := fileutil.CopyFile(src, dst, 0o644); err != nil {
			return errors.Wrapf(err, "seeding %s", dst)
		}
	}
	return nil
}

func (s *PresetConfig) Verify(env *pipeline.Env) error {
	for _, name := range configNames {
		if !fileExists(filepath.Join(env.Target.GamePath, name)) {
			return errors.Newf("%s missing after seeding", name)
		}
	}
	return nil
}
