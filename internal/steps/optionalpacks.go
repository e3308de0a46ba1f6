package steps

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/config"
	xserrors "github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/fetch"
	"github.com/thoreinstein/xivshade/internal/pipeline"
	"github.com/thoreinstein/xivshade/pkg/fileutil"
)

// installedMarker is written into a pack's cache directory once its shaders
// have landed in the game tree.
const installedMarker = ".installed"

// OptionalPacks downloads the configured shader packs (iMMERSE and METEOR by
// default) and copies their Shaders and Textures trees into the game's
// shader directory. One pack failing to download is a warning; the step only
// fails when no pack could be installed at all.
type OptionalPacks struct{}

// NewOptionalPacks returns the step.
func NewOptionalPacks() *OptionalPacks { return &OptionalPacks{} }

func (s *OptionalPacks) Name() string { return "optionalpacks" }

func (s *OptionalPacks) Check(env *pipeline.Env) (bool, error) {
	if len(env.Config.ShaderPacks) == 0 {
		return true, nil
	}
	for _, pack := range env.Config.ShaderPacks {
		if !fileExists(s.marker(env, pack)) {
			return false, nil
		}
	}
	return true, nil
}

func (s *OptionalPacks) Mutates(env *pipeline.Env) []string { return nil }

func (s *OptionalPacks) Apply(env *pipeline.Env) error {
	var installed int
	var failed []string

	for _, pack := range env.Config.ShaderPacks {
		if err := s.installPack(env, pack); err != nil {
			env.Log.Warn("shader pack skipped", "pack", pack.Name, "error", err)
			failed = append(failed, pack.Name)
			continue
		}
		installed++
	}

	if len(env.Config.ShaderPacks) > 0 && installed == 0 {
		return errors.Wrapf(xserrors.ErrFetchFailed,
			"no shader pack could be installed (%s)", strings.Join(failed, ", "))
	}
	return nil
}

func (s *OptionalPacks) Verify(env *pipeline.Env) error {
	if len(env.Config.ShaderPacks) == 0 {
		return nil
	}
	for _, pack := range env.Config.ShaderPacks {
		if fileExists(s.marker(env, pack)) {
			return nil
		}
	}
	return errors.New("no shader pack present after install")
}

func (s *OptionalPacks) marker(env *pipeline.Env, pack config.ShaderPack) string {
	return filepath.Join(cacheDir(env), pack.Name, installedMarker)
}

func (s *OptionalPacks) installPack(env *pipeline.Env, pack config.ShaderPack) error {
	if fileExists(s.marker(env, pack)) {
		return nil
	}

	packDir := filepath.Join(cacheDir(env), pack.Name)
	extracted := filepath.Join(packDir, pack.ExtractDir)

	if !dirExists(extracted) {
		archive := filepath.Join(cacheDir(env), pack.Name+".zip")
		if err := fetch.Download(pack.URL, archive); err != nil {
			return err
		}
		if err := fetch.Unzip(archive, packDir); err != nil {
			return err
		}
		if !dirExists(extracted) {
			return errors.Newf("archive for %s did not contain %s", pack.Name, pack.ExtractDir)
		}
	}

	// Copies land inside the collection clone via the reshade-shaders
	// symlink, exactly where the presets expect to find them.
	shaderRoot := filepath.Join(env.Target.GamePath, "reshade-shaders")
	for _, sub := range []string{"Shaders", "Textures"} {
		src := filepath.Join(extracted, sub)
		if !dirExists(src) {
			continue
		}
		if err := fileutil.CopyTree(src, filepath.Join(shaderRoot, sub)); err != nil {
			return errors.Wrapf(err, "copying %s of %s", sub, pack.Name)
		}
	}

	return os.WriteFile(s.marker(env, pack), nil, 0o644)
}
