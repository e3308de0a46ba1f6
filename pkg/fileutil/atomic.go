// Package fileutil provides the file primitives the installer leans on:
// atomic writes and recursive copies.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// AtomicWriteFile writes data to path through a temporary sibling file and a
// rename, so an interrupted write never leaves a truncated target. The
// parent directory must already exist; perm is applied to the final file.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	// The temp file has to live next to the target: rename is only atomic
	// within one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".xivshade-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "setting mode on %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	renamed = true
	return nil
}

// AtomicWriteJSON writes v as two-space-indented JSON with a trailing
// newline, atomically, mode 0644. The parent directory must exist.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), 0o644)
}

// AtomicWriteYAML writes v as YAML with a trailing newline, atomically,
// mode 0644. The parent directory must exist.
func AtomicWriteYAML(path string, v any) (err error) {
	// yaml.Marshal panics on unmarshalable values instead of returning an
	// error; turn that into an error.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, 0o644)
}
