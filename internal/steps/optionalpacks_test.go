package steps

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

	"github.com/thoreinstein/xivshade/internal/config"
	xserrors "github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/pipeline"
)

// packZip builds an archive shaped like the iMMERSE/METEOR releases: one
// top-level directory holding Shaders and Textures.
func packZip(t *testing.T, topDir string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := map[string]string{
		topDir + "/Shaders/MartysMods_Launchpad.fx": "technique",
		topDir + "/Textures/bluenoise.png":          "png",
		topDir + "/README.md":                       "readme",
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func packServer(t *testing.T, archives map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// shaderRootDir creates the game's reshade-shaders directory, which the
// gposingway step normally provides.
func shaderRootDir(t *testing.T, env *pipeline.Env) string {
	t.Helper()
	root := filepath.Join(env.Target.GamePath, "reshade-shaders")
	require.NoError(t, os.MkdirAll(root, 0o755))
	return root
}

func TestOptionalPacks_InstallsBoth(t *testing.T) {
	env := testEnv(t)
	root := shaderRootDir(t, env)

	srv := packServer(t, map[string][]byte{
		"/immerse.zip": packZip(t, "iMMERSE-main"),
		"/meteor.zip":  packZip(t, "METEOR-main"),
	})
	env.Config.ShaderPacks = []config.ShaderPack{
		{Name: "immerse", URL: srv.URL + "/immerse.zip", ExtractDir: "iMMERSE-main"},
		{Name: "meteor", URL: srv.URL + "/meteor.zip", ExtractDir: "METEOR-main"},
	}

	step := NewOptionalPacks()

	done, err := step.Check(env)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, step.Apply(env))
	require.NoError(t, step.Verify(env))

	assert.FileExists(t, filepath.Join(root, "Shaders", "MartysMods_Launchpad.fx"))
	assert.FileExists(t, filepath.Join(root, "Textures", "bluenoise.png"))
	assert.NoFileExists(t, filepath.Join(root, "README.md"), "only Shaders and Textures are copied")

	done, err = step.Check(env)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestOptionalPacks_OneFailureIsAWarning(t *testing.T) {
	env := testEnv(t)
	root := shaderRootDir(t, env)

	srv := packServer(t, map[string][]byte{
		"/immerse.zip": packZip(t, "iMMERSE-main"),
	})
	env.Config.ShaderPacks = []config.ShaderPack{
		{Name: "immerse", URL: srv.URL + "/immerse.zip", ExtractDir: "iMMERSE-main"},
		{Name: "meteor", URL: srv.URL + "/gone.zip", ExtractDir: "METEOR-main"},
	}

	step := NewOptionalPacks()
	require.NoError(t, step.Apply(env), "a single failed pack must not fail the step")
	require.NoError(t, step.Verify(env))

	assert.FileExists(t, filepath.Join(root, "Shaders", "MartysMods_Launchpad.fx"))

	done, err := step.Check(env)
	require.NoError(t, err)
	assert.False(t, done, "the failed pack keeps the step unsatisfied for retries")
}

func TestOptionalPacks_AllFailuresFailTheStep(t *testing.T) {
	env := testEnv(t)
	shaderRootDir(t, env)

	srv := packServer(t, nil)
	env.Config.ShaderPacks = []config.ShaderPack{
		{Name: "immerse", URL: srv.URL + "/gone.zip", ExtractDir: "iMMERSE-main"},
		{Name: "meteor", URL: srv.URL + "/gone2.zip", ExtractDir: "METEOR-main"},
	}

	err := NewOptionalPacks().Apply(env)
	require.Error(t, err)
	assert.ErrorIs(t, err, xserrors.ErrFetchFailed)
}

func TestOptionalPacks_NoPacksConfigured(t *testing.T) {
	env := testEnv(t)
	env.Config.ShaderPacks = nil

	step := NewOptionalPacks()
	done, err := step.Check(env)
	require.NoError(t, err)
	assert.True(t, done)
	require.NoError(t, step.Verify(env))
}

func TestOptionalPacks_WrongTopDirFails(t *testing.T) {
	env := testEnv(t)
	shaderRootDir(t, env)

	srv := packServer(t, map[string][]byte{
		"/immerse.zip": packZip(t, "renamed-top-dir"),
	})
	env.Config.ShaderPacks = []config.ShaderPack{
		{Name: "immerse", URL: srv.URL + "/immerse.zip", ExtractDir: "iMMERSE-main"},
	}

	err := NewOptionalPacks().Apply(env)
	require.Error(t, err)
	assert.ErrorIs(t, err, xserrors.ErrFetchFailed)
}
