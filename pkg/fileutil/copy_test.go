package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.dll")
	dst := filepath.Join(dir, "sub", "dst.dll")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	require.NoError(t, CopyFile(src, dst, 0))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "source mode carries over when perm is 0")
}

func TestCopyFile_ExplicitPerm(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))

	require.NoError(t, CopyFile(src, dst, 0o644))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), 0)
	assert.Error(t, err)
}

func TestCopyTree_Merges(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(src, "Shaders", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Shaders", "a.fx"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Shaders", "deep", "b.fxh"), []byte("b"), 0o644))

	// Pre-existing unrelated file in dst must survive the merge.
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "Shaders"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "Shaders", "keep.fx"), []byte("keep"), 0o644))

	require.NoError(t, CopyTree(src, dst))

	for _, name := range []string{"Shaders/a.fx", "Shaders/deep/b.fxh", "Shaders/keep.fx"} {
		_, err := os.Stat(filepath.Join(dst, filepath.FromSlash(name)))
		assert.NoError(t, err, name)
	}
}
