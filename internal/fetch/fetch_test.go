package fetch

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
)

// makeZip builds an in-memory zip with the given name->content entries.
func makeZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDownload(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cache", "pack.zip")
	require.NoError(t, Download(srv.URL, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(data))
	assert.Equal(t, userAgent, gotUA)
}

func TestDownload_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	err := Download(srv.URL, filepath.Join(t.TempDir(), "pack.zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, xserrors.ErrFetchFailed)
}

func TestDownload_ConnectionRefused(t *testing.T) {
	err := Download("http://127.0.0.1:1/nothing", filepath.Join(t.TempDir(), "pack.zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, xserrors.ErrFetchFailed)
}

func TestUnzip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "pack.zip")
	data := makeZip(t, map[string]string{
		"iMMERSE-main/Shaders/MartysMods_LAUNCHPAD.fx": "shader source",
		"iMMERSE-main/Textures/readme.txt":             "textures",
	})
	require.NoError(t, os.WriteFile(archive, data, 0o644))

	dest := t.TempDir()
	require.NoError(t, Unzip(archive, dest))

	content, err := os.ReadFile(filepath.Join(dest, "iMMERSE-main", "Shaders", "MartysMods_LAUNCHPAD.fx"))
	require.NoError(t, err)
	assert.Equal(t, "shader source", string(content))
}

func TestUnzip_RejectsTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.zip")
	data := makeZip(t, map[string]string{
		"../outside.txt": "escape attempt",
	})
	require.NoError(t, os.WriteFile(archive, data, 0o644))

	dest := t.TempDir()
	err := Unzip(archive, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "outside.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnzip_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.zip")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	assert.Error(t, Unzip(path, t.TempDir()))
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	assert.True(t, IsRepo(dir))
}
