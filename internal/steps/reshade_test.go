package steps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/pipeline"
)

func TestReshade_InstallsDLL(t *testing.T) {
	env := testEnv(t)

	var gotDir string
	step := &Reshade{
		sync: func(url, dir string) (bool, error) {
			gotDir = dir
			return true, os.MkdirAll(dir, 0o755)
		},
		run: func(env *pipeline.Env, scriptDir string) error {
			return os.WriteFile(filepath.Join(env.Target.GamePath, reshadeDLL), []byte("MZ"), 0o644)
		},
	}

	done, err := step.Check(env)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, step.Apply(env))
	require.NoError(t, step.Verify(env))
	assert.Equal(t, installerDir(env), gotDir)

	done, err = step.Check(env)
	require.NoError(t, err)
	assert.True(t, done, "dxgi.dll present means the step is satisfied")
}

func TestReshade_SyncFailureAborts(t *testing.T) {
	env := testEnv(t)

	ran := false
	step := &Reshade{
		sync: func(url, dir string) (bool, error) {
			return false, errors.Wrap(xserrors.ErrFetchFailed, "clone")
		},
		run: func(*pipeline.Env, string) error {
			ran = true
			return nil
		},
	}

	err := step.Apply(env)
	require.Error(t, err)
	assert.ErrorIs(t, err, xserrors.ErrFetchFailed)
	assert.False(t, ran, "script must not run after a failed sync")
}

func TestReshade_VerifyFailsWithoutDLL(t *testing.T) {
	env := testEnv(t)

	step := &Reshade{
		sync: func(url, dir string) (bool, error) { return true, nil },
		run:  func(*pipeline.Env, string) error { return nil },
	}

	require.NoError(t, step.Apply(env))
	assert.Error(t, step.Verify(env))
}

func TestRunInstallScript_MissingScript(t *testing.T) {
	env := testEnv(t)
	err := runInstallScript(env, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reshade-linux.sh")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail([]byte("short"), 10))
	assert.Equal(t, "...cdef", tail([]byte("abcdef"), 4))
}
