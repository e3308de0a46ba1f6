package steps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/pipeline"
	"github.com/thoreinstein/xivshade/internal/reshadecfg"
)

func iniStep(home string) *ReshadeINI {
	return &ReshadeINI{home: func() string { return home }}
}

func writeGameINI(t *testing.T, env *pipeline.Env, content string) string {
	t.Helper()
	path := filepath.Join(env.Target.GamePath, "ReShade.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReshadeINI_PatchesSearchPaths(t *testing.T) {
	env := testEnv(t)
	step := iniStep(filepath.Dir(env.Target.GamePath))
	writeGameINI(t, env, "[GENERAL]\nEffectSearchPaths=.\\reshade-shaders\\Shaders\n")

	done, err := step.Check(env)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, step.Apply(env))
	require.NoError(t, step.Verify(env))

	doc, err := reshadecfg.Load(filepath.Join(env.Target.GamePath, "ReShade.ini"))
	require.NoError(t, err)

	effects := doc.Get("GENERAL", "EffectSearchPaths")
	assert.True(t, strings.HasPrefix(effects, `X:\`), "wine drive notation, got %q", effects)
	assert.Contains(t, effects, `reshade-shaders\Shaders\**`)
	assert.Contains(t, doc.Get("GENERAL", "TextureSearchPaths"), `Textures\**`)
	assert.Contains(t, doc.Get("GENERAL", "IntermediateCachePath"), intermediateCacheDir)

	assert.Equal(t, "1", doc.Get("GENERAL", "NoReloadOnInit"))
	assert.Equal(t, "113,0,1,0", doc.Get("INPUT", "KeyOverlay"))

	assert.DirExists(t, filepath.Join(env.Target.GamePath, intermediateCacheDir))

	done, err = step.Check(env)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestReshadeINI_PreservesTunedKeys(t *testing.T) {
	env := testEnv(t)
	step := iniStep(filepath.Dir(env.Target.GamePath))
	writeGameINI(t, env, "[GENERAL]\nPerformanceMode=0\n[INPUT]\nKeyOverlay=36,0,0,0\n")

	require.NoError(t, step.Apply(env))

	doc, err := reshadecfg.Load(filepath.Join(env.Target.GamePath, "ReShade.ini"))
	require.NoError(t, err)
	assert.Equal(t, "0", doc.Get("GENERAL", "PerformanceMode"))
	assert.Equal(t, "36,0,0,0", doc.Get("INPUT", "KeyOverlay"))
}

func TestReshadeINI_AppendsExtraEffectPaths(t *testing.T) {
	env := testEnv(t)
	env.Config.ExtraEffectPaths = []string{`X:\shaders\extra`}
	step := iniStep(filepath.Dir(env.Target.GamePath))
	writeGameINI(t, env, "[GENERAL]\n")

	require.NoError(t, step.Apply(env))
	require.NoError(t, step.Apply(env))

	doc, err := reshadecfg.Load(filepath.Join(env.Target.GamePath, "ReShade.ini"))
	require.NoError(t, err)

	effects := doc.Get("GENERAL", "EffectSearchPaths")
	assert.Equal(t, 1, strings.Count(effects, `X:\shaders\extra`), "append must be idempotent")
	assert.Contains(t, effects, `Shaders\**`)

	done, err := step.Check(env)
	require.NoError(t, err)
	assert.True(t, done, "extras count as satisfied list tokens")
}

func TestReshadeINI_SecondApplyIsStable(t *testing.T) {
	env := testEnv(t)
	step := iniStep(filepath.Dir(env.Target.GamePath))
	path := writeGameINI(t, env, "[GENERAL]\nGamma=2.2\n[OVERLAY]\nTutorial=4\n")

	require.NoError(t, step.Apply(env))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, step.Apply(env))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(second), "Gamma=2.2", "unrelated keys pass through")
	assert.Contains(t, string(second), "Tutorial=4")
}

func TestReshadeINI_MalformedSurfacesError(t *testing.T) {
	env := testEnv(t)
	step := iniStep(filepath.Dir(env.Target.GamePath))
	path := writeGameINI(t, env, "[GENERAL\nbroken")
	require.NoError(t, os.MkdirAll(filepath.Join(env.Target.GamePath, intermediateCacheDir), 0o755))

	_, err := step.Check(env)
	require.Error(t, err)
	assert.ErrorIs(t, err, xserrors.ErrMalformedConfig)

	// The broken file is left exactly as it was.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[GENERAL\nbroken", string(data))
}
