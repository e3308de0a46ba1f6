package fetch

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Unzip extracts archive into destDir. Entries that would escape destDir
// (absolute paths or ".." traversal) are rejected outright.
func Unzip(archive, destDir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return errors.Wrapf(err, "opening %s", archive)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(err, "creating extraction directory")
	}

	cleanDest := filepath.Clean(destDir)
	for _, f := range r.File {
		target := filepath.Join(cleanDest, f.Name)
		if !strings.HasPrefix(target, cleanDest+string(filepath.Separator)) {
			return errors.Newf("archive entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, "creating %s", target)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", target)
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "opening archive entry %s", f.Name)
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrapf(err, "creating %s", target)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Wrapf(err, "extracting %s", f.Name)
	}

	return errors.Wrapf(out.Close(), "closing %s", target)
}
