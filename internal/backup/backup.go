// Package backup protects existing configuration files before the installer
// mutates them.
//
// Each installer run creates at most one timestamped copy per file
// (backup-once), so re-running the installer never produces
// backup-of-backup chains. Copies are flat files named
// <basename>.<timestamp> under the backup directory, with a per-run JSON
// manifest recording originals, copies, and content hashes for integrity
// checks on restore.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/pkg/fileutil"
)

// timestampLayout matches the suffix appended to backup copies and the run ID.
const timestampLayout = "20060102_150405"

const manifestSuffix = ".manifest.json"

// Manager creates and restores timestamped backups for one installer run.
// It is not safe for concurrent use; the installer is single-threaded by
// design (single concurrent invocation is a documented precondition).
type Manager struct {
	dir   string
	runID string
	seen  map[string]*Record
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager rooted at dir. The run ID is fixed at
// creation time; every backup made through this Manager belongs to it.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:  dir,
		seen: make(map[string]*Record),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.runID = m.now().Format(timestampLayout)
	return m
}

// RunID returns the identifier of the current run.
func (m *Manager) RunID() string {
	return m.runID
}

// BackupIfNeeded copies path into the backup directory unless this run has
// already backed it up, in which case the existing record is returned.
// A missing source file yields a no-op record rather than an error.
//
// The manifest is rewritten after every new record so a crash mid-run still
// leaves an accurate account of what was protected.
func (m *Manager) BackupIfNeeded(path string) (*Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	if rec, ok := m.seen[abs]; ok {
		return rec, nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			rec := &Record{
				OriginalPath: abs,
				CreatedAt:    m.now().UTC(),
				Skipped:      true,
			}
			m.seen[abs] = rec
			return rec, m.writeManifest()
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf("refusing to back up directory %s", path)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	dst := m.freeBackupPath(filepath.Base(abs))
	hash, mode, err := copyFile(abs, dst)
	if err != nil {
		return nil, errors.Wrapf(err, "backing up %s", path)
	}

	rec := &Record{
		OriginalPath: abs,
		BackupPath:   dst,
		SHA256Hash:   hash,
		Mode:         mode,
		CreatedAt:    m.now().UTC(),
	}
	m.seen[abs] = rec

	return rec, m.writeManifest()
}

// Restore copies a backup back over its original location. It fails loudly
// if the backup no longer exists or its contents no longer match the
// recorded hash; restore never silently no-ops.
func (m *Manager) Restore(rec *Record) error {
	if rec.Skipped {
		return errors.Wrapf(xserrors.ErrBackupMissing,
			"%s did not exist before the run, no backup to restore", rec.OriginalPath)
	}

	if _, err := os.Stat(rec.BackupPath); err != nil {
		return errors.Wrapf(xserrors.ErrBackupMissing, "%s", rec.BackupPath)
	}

	hash, err := hashFile(rec.BackupPath)
	if err != nil {
		return errors.Wrapf(err, "reading backup %s", rec.BackupPath)
	}
	if hash != rec.SHA256Hash {
		return errors.Wrapf(ErrBackupCorrupted, "%s hash mismatch", rec.BackupPath)
	}

	if err := os.MkdirAll(filepath.Dir(rec.OriginalPath), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", rec.OriginalPath)
	}
	if _, _, err := copyFile(rec.BackupPath, rec.OriginalPath); err != nil {
		return errors.Wrapf(err, "restoring %s", rec.OriginalPath)
	}
	if err := os.Chmod(rec.OriginalPath, rec.Mode); err != nil {
		return errors.Wrapf(err, "setting permissions for %s", rec.OriginalPath)
	}

	return nil
}

// RestoreRun restores every non-skipped record of a previous run.
func (m *Manager) RestoreRun(runID string) error {
	manifest, err := m.Get(runID)
	if err != nil {
		return err
	}

	for i := range manifest.Records {
		rec := &manifest.Records[i]
		if rec.Skipped {
			continue
		}
		if err := m.Restore(rec); err != nil {
			return err
		}
	}

	return nil
}

// Records returns the records created so far in this run, in backup order.
func (m *Manager) Records() []Record {
	recs := make([]Record, 0, len(m.seen))
	for _, rec := range m.seen {
		recs = append(recs, *rec)
	}
	slices.SortFunc(recs, func(a, b Record) int {
		return strings.Compare(a.OriginalPath, b.OriginalPath)
	})
	return recs
}

// List returns the manifests of all recorded runs, newest first.
func (m *Manager) List() ([]RunManifest, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var manifests []RunManifest
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, manifestSuffix) {
			continue
		}
		runID := strings.TrimSuffix(name, manifestSuffix)
		manifest, err := m.Get(runID)
		if err != nil {
			// Skip unreadable manifests rather than failing the listing.
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b RunManifest) int {
		return strings.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Get loads the manifest for a specific run.
func (m *Manager) Get(runID string) (*RunManifest, error) {
	if runID == "" {
		return nil, errors.New("run ID is required")
	}

	data, err := os.ReadFile(filepath.Join(m.dir, runID+manifestSuffix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "run %s not found", runID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	manifest.ID = runID
	return &manifest, nil
}

// Prune removes run manifests and their backup copies beyond the retention
// count, keeping the most recent 'keep' runs.
func (m *Manager) Prune(keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil // Nothing to prune
		}
		return err
	}

	// Already sorted newest first, delete everything beyond 'keep'
	for i := keep; i < len(manifests); i++ {
		for _, rec := range manifests[i].Records {
			if rec.BackupPath == "" {
				continue
			}
			if err := os.Remove(rec.BackupPath); err != nil && !os.IsNotExist(err) {
				return errors.Wrapf(err, "removing backup %s", rec.BackupPath)
			}
		}
		manifestPath := filepath.Join(m.dir, manifests[i].ID+manifestSuffix)
		if err := os.Remove(manifestPath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing manifest for run %s", manifests[i].ID)
		}
	}

	return nil
}

// freeBackupPath picks <dir>/<base>.<runID>, appending a numeric suffix if
// an earlier run in the same wall-clock second already claimed the name.
func (m *Manager) freeBackupPath(base string) string {
	candidate := filepath.Join(m.dir, fmt.Sprintf("%s.%s", base, m.runID))
	for n := 1; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(m.dir, fmt.Sprintf("%s.%s.%d", base, m.runID, n))
	}
}

func (m *Manager) writeManifest() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating backup directory")
	}

	manifest := RunManifest{
		Version:   ManifestVersion,
		CreatedAt: m.now().UTC(),
		Records:   m.Records(),
	}

	path := filepath.Join(m.dir, m.runID+manifestSuffix)
	if err := fileutil.AtomicWriteJSON(path, manifest); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	return nil
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file from src to dst, returning the SHA256 hash and mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	// Compute hash while copying
	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
