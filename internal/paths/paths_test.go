package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLayoutIsRootedAtWorkdir(t *testing.T) {
	// The layout must follow whatever root the caller hands in, since the
	// config file can override the XDG default.
	for _, work := range []string{WorkDir(), "/custom/workdir"} {
		if work == "" {
			t.Fatal("empty working directory")
		}

		for name, dir := range map[string]string{
			"BackupDir":           BackupDir(work),
			"CacheDir":            CacheDir(work),
			"ReshadeInstallerDir": ReshadeInstallerDir(work),
			"ReshadeDataDir":      ReshadeDataDir(work),
			"GposingwayDir":       GposingwayDir(work),
		} {
			if !strings.HasPrefix(dir, work+string(filepath.Separator)) {
				t.Errorf("%s = %q is not under %q", name, dir, work)
			}
		}
	}
}

func TestWorkDirUsesAppName(t *testing.T) {
	if filepath.Base(WorkDir()) != AppName {
		t.Errorf("WorkDir = %q, want base %q", WorkDir(), AppName)
	}
	if filepath.Base(ConfigDir()) != AppName {
		t.Errorf("ConfigDir = %q, want base %q", ConfigDir(), AppName)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir did not create a directory")
	}

	// Idempotent on existing directory.
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir on existing dir: %v", err)
	}
}

func TestResolveHome(t *testing.T) {
	home, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome: %v", err)
	}
	if home == "" {
		t.Error("ResolveHome returned empty string without error")
	}
}
