package steps

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/pipeline"
)

// legacyShaderDir is the shader directory the stock ReShade install script
// creates. It shadows the collection's shaders and has to go before the
// symlinks are put in place.
const legacyShaderDir = "ReShade_shaders"

// CleanShaders removes the baseline shader directory from the game dir.
type CleanShaders struct{}

// NewCleanShaders returns the step.
func NewCleanShaders() *CleanShaders { return &CleanShaders{} }

func (s *CleanShaders) Name() string { return "cleanshaders" }

func (s *CleanShaders) path(env *pipeline.Env) string {
	return filepath.Join(env.Target.GamePath, legacyShaderDir)
}

func (s *CleanShaders) Check(env *pipeline.Env) (bool, error) {
	_, err := os.Lstat(s.path(env))
	return os.IsNotExist(err), nil
}

func (s *CleanShaders) Mutates(env *pipeline.Env) []string { return nil }

func (s *CleanShaders) Apply(env *pipeline.Env) error {
	path := s.path(env)
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "inspecting %s", path)
	}

	// A symlink to the shader dir is removed as a link, never followed.
	if info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	return errors.Wrapf(err, "removing %s", path)
}

func (s *CleanShaders) Verify(env *pipeline.Env) error {
	if _, err := os.Lstat(s.path(env)); !os.IsNotExist(err) {
		return errors.Newf("%s still present", s.path(env))
	}
	return nil
}
