package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the default number of run manifests to retain.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backup runs exist yet.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates backup file integrity verification failed.
	// This occurs when a file's SHA256 hash doesn't match the manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Record describes one protected file. A record is created before the first
// mutation of a path within a run; later mutations of the same path reuse it.
type Record struct {
	// OriginalPath is the absolute path of the protected file.
	OriginalPath string `json:"original_path"`

	// BackupPath is the timestamped copy under the backup directory.
	// Empty when Skipped is true.
	BackupPath string `json:"backup_path,omitempty"`

	// SHA256Hash is the hex-encoded hash of the copied contents.
	// Empty when Skipped is true.
	SHA256Hash string `json:"sha256_hash,omitempty"`

	// Mode is the original file's permission bits.
	Mode fs.FileMode `json:"mode,omitempty"`

	// CreatedAt is when the backup copy was made.
	CreatedAt time.Time `json:"created_at"`

	// Skipped is true when the original file did not exist at backup time.
	// Absence of a pre-existing file is not a failure; there is simply
	// nothing to protect.
	Skipped bool `json:"skipped,omitempty"`
}

// RunManifest records every backup made during one installer run.
// It is stored as <runID>.manifest.json in the backup directory.
type RunManifest struct {
	// Version is the manifest format version for forward compatibility.
	Version int `json:"version"`

	// CreatedAt is when the run started.
	CreatedAt time.Time `json:"created_at"`

	// Records lists the files protected during the run.
	Records []Record `json:"records"`

	// ID is the run identifier (timestamp format: 20060102_150405).
	// Populated when loading from disk but not stored in JSON.
	ID string `json:"-"`
}
