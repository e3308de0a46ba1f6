// Package fetch wraps the external collaborators that bring remote artifacts
// onto disk: git repositories and zip archives over HTTP.
//
// The installer core only consumes the resulting local paths; any failure
// here surfaces as a fetch error scoped to the step that asked for it.
package fetch

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
)

// SyncRepo clones url into dir, or updates an existing clone with a rebasing
// pull. Returns true when the repo was freshly cloned.
func SyncRepo(url, dir string) (cloned bool, err error) {
	if _, statErr := os.Stat(filepath.Join(dir, ".git")); statErr == nil {
		cmd := exec.Command("git", "-C", dir, "pull", "--rebase")
		if out, runErr := cmd.CombinedOutput(); runErr != nil {
			return false, errors.Wrapf(xserrors.ErrFetchFailed,
				"git pull in %s: %v: %s", dir, runErr, out)
		}
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return false, errors.Wrap(err, "creating clone parent directory")
	}

	cmd := exec.Command("git", "clone", url, dir)
	if out, runErr := cmd.CombinedOutput(); runErr != nil {
		return false, errors.Wrapf(xserrors.ErrFetchFailed,
			"git clone %s: %v: %s", url, runErr, out)
	}
	return true, nil
}

// IsRepo reports whether dir contains a git clone.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}
