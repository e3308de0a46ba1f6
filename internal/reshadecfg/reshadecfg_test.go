package reshadecfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
)

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ReShade.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Malformed(t *testing.T) {
	original := "key value without equals\n[unterminated"
	path := writeINI(t, original)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, xserrors.ErrMalformedConfig)

	// The file must be left untouched.
	data, _ := os.ReadFile(path)
	assert.Equal(t, original, string(data))
}

func TestRoundTrip_Stable(t *testing.T) {
	path := writeINI(t, `[GENERAL]
EffectSearchPaths=.\reshade-shaders\Shaders
PerformanceMode=0

[INPUT]
KeyOverlay=36,0,0,0
`)

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, doc.Save())

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	// Load and save again: output must be byte-identical from the first
	// normalization onwards.
	doc2, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, doc2.Save())

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestApply_Overwrite(t *testing.T) {
	path := writeINI(t, "[GENERAL]\nPerformanceMode=0\n")

	doc, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, doc.Apply(Patch{
		Section: "GENERAL", Key: "PerformanceMode", Value: "1", Mode: Overwrite,
	}))
	assert.Equal(t, "1", doc.Get("GENERAL", "PerformanceMode"))
}

func TestApply_SetIfAbsent_PreservesUserValue(t *testing.T) {
	path := writeINI(t, "[General]\nFoo=user\n")

	doc, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, doc.Apply(Patch{
		Section: "General", Key: "Foo", Value: "default", Mode: SetIfAbsent,
	}))
	assert.Equal(t, "user", doc.Get("General", "Foo"))

	require.NoError(t, doc.Apply(Patch{
		Section: "General", Key: "Bar", Value: "default", Mode: SetIfAbsent,
	}))
	assert.Equal(t, "default", doc.Get("General", "Bar"))
}

func TestApply_AppendToList_Idempotent(t *testing.T) {
	path := writeINI(t, "[GENERAL]\nEffectSearchPaths=A,B\n")

	doc, err := Load(path)
	require.NoError(t, err)

	patch := Patch{Section: "GENERAL", Key: "EffectSearchPaths", Value: "X", Mode: AppendToList}
	require.NoError(t, doc.Apply(patch))
	assert.Equal(t, "A,B,X", doc.Get("GENERAL", "EffectSearchPaths"))

	// Applying the same append twice must not duplicate the token.
	require.NoError(t, doc.Apply(patch))
	assert.Equal(t, "A,B,X", doc.Get("GENERAL", "EffectSearchPaths"))
}

func TestApply_AppendToList_EmptyStart(t *testing.T) {
	path := writeINI(t, "[GENERAL]\n")

	doc, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, doc.Apply(Patch{
		Section: "GENERAL", Key: "TextureSearchPaths", Value: "X", Mode: AppendToList,
	}))
	assert.Equal(t, "X", doc.Get("GENERAL", "TextureSearchPaths"))
}

func TestApply_LastAppliedWins(t *testing.T) {
	path := writeINI(t, "[GENERAL]\n")

	doc, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, doc.Apply(
		Patch{Section: "GENERAL", Key: "PerformanceMode", Value: "0", Mode: Overwrite},
		Patch{Section: "GENERAL", Key: "PerformanceMode", Value: "1", Mode: Overwrite},
	))
	assert.Equal(t, "1", doc.Get("GENERAL", "PerformanceMode"))
}

func TestApply_PreservesUnrelatedKeys(t *testing.T) {
	path := writeINI(t, `[GENERAL]
EffectSearchPaths=.\reshade-shaders\Shaders
UserCustomSetting=keep-me

[OVERLAY]
TutorialProgress=4
`)

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, doc.Apply(Patch{
		Section: "GENERAL", Key: "PerformanceMode", Value: "1", Mode: Overwrite,
	}))
	require.NoError(t, doc.Save())

	doc2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", doc2.Get("GENERAL", "UserCustomSetting"))
	assert.Equal(t, "4", doc2.Get("OVERLAY", "TutorialProgress"))
	assert.Equal(t, `.\reshade-shaders\Shaders`, doc2.Get("GENERAL", "EffectSearchPaths"))
}

func TestApply_CaseSensitiveKeys(t *testing.T) {
	path := writeINI(t, "[INPUT]\nKeyOverlay=36,0,0,0\n")

	doc, err := Load(path)
	require.NoError(t, err)

	// ReShade key names are case sensitive; a differently cased key is a
	// different key.
	assert.True(t, doc.Has("INPUT", "KeyOverlay"))
	assert.False(t, doc.Has("INPUT", "keyoverlay"))
}

func TestSave_Atomic(t *testing.T) {
	path := writeINI(t, "[GENERAL]\nPerformanceMode=0\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, doc.Apply(Patch{
		Section: "GENERAL", Key: "PerformanceMode", Value: "1", Mode: Overwrite,
	}))
	require.NoError(t, doc.Save())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may remain next to the config")
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "overwrite", Overwrite.String())
	assert.Equal(t, "set-if-absent", SetIfAbsent.String())
	assert.Equal(t, "append-to-list", AppendToList.String())
}
