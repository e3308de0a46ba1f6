// Package reshadecfg reads and patches ReShade's INI configuration while
// preserving everything the installer does not own.
//
// Only keys named in a patch are touched; unrelated sections, keys, and
// comments pass through untouched. Serialization is stable: loading and
// saving a document without patches yields identical bytes on every pass,
// so repeated installer runs never produce spurious diffs.
package reshadecfg

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/ini.v1"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/pkg/fileutil"
)

func init() {
	// ReShade writes key=value with no padding; match it so our output
	// diffs cleanly against files the game itself has written.
	ini.PrettyFormat = false
}

// Mode selects how a patch combines with an existing value.
type Mode int

const (
	// Overwrite sets the key regardless of prior content.
	Overwrite Mode = iota

	// SetIfAbsent sets the key only when it does not already exist,
	// preserving user-chosen values.
	SetIfAbsent

	// AppendToList treats the value as a separator-delimited sequence and
	// appends the new token only if not already present.
	AppendToList
)

// String returns the mode name for logs and error messages.
func (m Mode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case SetIfAbsent:
		return "set-if-absent"
	case AppendToList:
		return "append-to-list"
	default:
		return "unknown"
	}
}

// DefaultListSep separates tokens in list-valued keys such as
// EffectSearchPaths.
const DefaultListSep = ","

// Patch describes one owned key and how to apply it.
type Patch struct {
	Section string
	Key     string
	Value   string
	Mode    Mode

	// Sep overrides DefaultListSep for AppendToList patches.
	Sep string
}

// Document is an in-memory INI file tied to its path on disk.
type Document struct {
	path string
	file *ini.File
}

// Load parses the INI file at path. A parse failure surfaces
// ErrMalformedConfig and the file is left untouched.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	file, err := ini.LoadSources(ini.LoadOptions{}, data)
	if err != nil {
		return nil, errors.Wrapf(xserrors.ErrMalformedConfig, "%s: %v", path, err)
	}

	return &Document{path: path, file: file}, nil
}

// Path returns the on-disk location the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Get returns the value of a key, or an empty string when absent.
func (d *Document) Get(section, key string) string {
	sec := d.file.Section(section)
	if !sec.HasKey(key) {
		return ""
	}
	return sec.Key(key).String()
}

// Has reports whether a key exists in a section.
func (d *Document) Has(section, key string) bool {
	return d.file.Section(section).HasKey(key)
}

// Apply applies the patches in order. Within one call, a later patch to the
// same key wins over an earlier one (last-applied-wins).
func (d *Document) Apply(patches ...Patch) error {
	for _, p := range patches {
		sec := d.file.Section(p.Section)

		switch p.Mode {
		case Overwrite:
			sec.Key(p.Key).SetValue(p.Value)

		case SetIfAbsent:
			if !sec.HasKey(p.Key) {
				sec.Key(p.Key).SetValue(p.Value)
			}

		case AppendToList:
			sep := p.Sep
			if sep == "" {
				sep = DefaultListSep
			}
			sec.Key(p.Key).SetValue(appendToken(sec.Key(p.Key).String(), p.Value, sep))

		default:
			return errors.Newf("unknown patch mode %d for %s.%s", p.Mode, p.Section, p.Key)
		}
	}

	return nil
}

// Save serializes the document back to its path via a temporary file and
// rename, so a crash mid-write never leaves a truncated config.
func (d *Document) Save() error {
	var buf bytes.Buffer
	if _, err := d.file.WriteTo(&buf); err != nil {
		return errors.Wrapf(err, "serializing %s", d.path)
	}
	return fileutil.AtomicWriteFile(d.path, buf.Bytes(), 0o644)
}

// appendToken adds token to a separator-delimited list unless an equal
// (whitespace-trimmed) token is already present. The existing value is kept
// verbatim; the new token is appended at the end.
func appendToken(existing, token, sep string) string {
	trimmed := strings.TrimSpace(existing)
	if trimmed == "" {
		return token
	}

	for _, part := range strings.Split(existing, sep) {
		if strings.TrimSpace(part) == strings.TrimSpace(token) {
			return existing
		}
	}

	return existing + sep + token
}
