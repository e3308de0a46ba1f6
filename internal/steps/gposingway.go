package steps

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/fetch"
	"github.com/thoreinstein/xivshade/internal/pipeline"
)

// linkNames are the game-dir entries replaced with symlinks into the
// collection clone. ReShade resolves both through the links, so updating the
// clone updates the game without touching the game dir again.
var linkNames = []string{"reshade-presets", "reshade-shaders"}

// asideSuffix marks a pre-existing real directory moved out of the way
// before its name becomes a symlink.
const asideSuffix = ".pre-gposingway"

// Gposingway syncs the preset collection into the workdir and symlinks the
// game's preset and shader directories at it.
type Gposingway struct {
	sync func(url, dir string) (bool, error)
}

// NewGposingway returns the step wired to git.
func NewGposingway() *Gposingway {
	return &Gposingway{sync: fetch.SyncRepo}
}

func (s *Gposingway) Name() string { return "gposingway" }

func (s *Gposingway) Check(env *pipeline.Env) (bool, error) {
	repo := gposingwayDir(env)
	if !fetch.IsRepo(repo) {
		return false, nil
	}
	for _, name := range linkNames {
		if !linkedAt(filepath.Join(env.Target.GamePath, name), filepath.Join(repo, name)) {
			return false, nil
		}
	}
	return true, nil
}

func (s *Gposingway) Mutates(env *pipeline.Env) []string { return nil }

func (s *Gposingway) Apply(env *pipeline.Env) error {
	repo := gposingwayDir(env)
	cloned, err := s.sync(env.Config.GposingwayURL, repo)
	if err != nil {
		return err
	}
	env.Log.Debug("collection synced", "dir", repo, "cloned", cloned)

	for _, name := range linkNames {
		target := filepath.Join(repo, name)
		if !dirExists(target) {
			return errors.Newf("collection is missing %s; unexpected repository layout", target)
		}
		if err := replaceWithLink(filepath.Join(env.Target.GamePath, name), target); err != nil {
			return err
		}
	}
	return nil
}

func (s *Gposingway) Verify(env *pipeline.Env) error {
	repo := gposingwayDir(env)
	for _, name := range linkNames {
		link := filepath.Join(env.Target.GamePath, name)
		if !linkedAt(link, filepath.Join(repo, name)) {
			return errors.Newf("%s does not link into the collection", link)
		}
	}
	return nil
}

// linkedAt reports whether link is a symlink pointing at an existing target.
func linkedAt(link, target string) bool {
	dest, err := os.Readlink(link)
	if err != nil || dest != target {
		return false
	}
	return dirExists(target)
}

// replaceWithLink makes link a symlink to target. A stale symlink is
// replaced; a real directory is moved aside rather than deleted, since it
// may hold shaders the user added by hand.
func replaceWithLink(link, target string) error {
	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			if err := os.Remove(link); err != nil {
				return errors.Wrapf(err, "removing stale link %s", link)
			}
		} else {
			aside := link + asideSuffix
			if _, err := os.Lstat(aside); err == nil {
				// An earlier run already saved a copy; this one is
				// installer-made and safe to drop.
				if err := os.RemoveAll(link); err != nil {
					return errors.Wrapf(err, "removing %s", link)
				}
			} else if err := os.Rename(link, aside); err != nil {
				return errors.Wrapf(err, "moving %s aside", link)
			}
		}
	}

	return errors.Wrapf(os.Symlink(target, link), "linking %s", link)
}
