package steps

import (
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/paths"
	"github.com/thoreinstein/xivshade/internal/pipeline"
)

// Workdir creates the installer's working directory tree. Repository clones
// create their own directories; this step owns everything else.
type Workdir struct{}

// NewWorkdir returns the step.
func NewWorkdir() *Workdir { return &Workdir{} }

func (s *Workdir) Name() string { return "workdir" }

func (s *Workdir) dirs(env *pipeline.Env) []string {
	return []string{
		workDir(env),
		backupDir(env),
		cacheDir(env),
		reshadeDataDir(env),
	}
}

func (s *Workdir) Check(env *pipeline.Env) (bool, error) {
	for _, dir := range s.dirs(env) {
		if !dirExists(dir) {
			return false, nil
		}
	}
	return true, nil
}

func (s *Workdir) Mutates(env *pipeline.Env) []string { return nil }

func (s *Workdir) Apply(env *pipeline.Env) error {
	for _, dir := range s.dirs(env) {
		if err := paths.EnsureDir(dir, 0); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	return nil
}

func (s *Workdir) Verify(env *pipeline.Env) error {
	for _, dir := range s.dirs(env) {
		if !dirExists(dir) {
			return errors.Newf("%s was not created", dir)
		}
	}
	return nil
}
