package steps

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/fetch"
	"github.com/thoreinstein/xivshade/internal/pipeline"
)

// reshadeDLL is the injection DLL the install script drops next to
// ffxiv_dx11.exe. Its presence is the step's postcondition.
const reshadeDLL = "dxgi.dll"

// Reshade installs ReShade into the game directory by driving the
// reshade-steam-proton install script unattended.
type Reshade struct {
	sync func(url, dir string) (bool, error)
	run  func(env *pipeline.Env, scriptDir string) error
}

// NewReshade returns the step wired to git and the real install script.
func NewReshade() *Reshade {
	return &Reshade{
		sync: fetch.SyncRepo,
		run:  runInstallScript,
	}
}

func (s *Reshade) Name() string { return "reshade" }

func (s *Reshade) Check(env *pipeline.Env) (bool, error) {
	return fileExists(filepath.Join(env.Target.GamePath, reshadeDLL)), nil
}

func (s *Reshade) Mutates(env *pipeline.Env) []string { return nil }

func (s *Reshade) Apply(env *pipeline.Env) error {
	dir := installerDir(env)
	cloned, err := s.sync(env.Config.ReshadeInstallerURL, dir)
	if err != nil {
		return err
	}
	env.Log.Debug("installer script synced", "dir", dir, "cloned", cloned)

	return s.run(env, dir)
}

func (s *Reshade) Verify(env *pipeline.Env) error {
	dll := filepath.Join(env.Target.GamePath, reshadeDLL)
	if !fileExists(dll) {
		return errors.Newf("%s not found after install", dll)
	}
	return nil
}

// runInstallScript drives reshade-linux.sh with scripted answers: install,
// game directory, confirm, no shader download prompt, 64-bit, dxgi, confirm.
// Shader repos are disabled because the collection supplies its own.
func runInstallScript(env *pipeline.Env, scriptDir string) error {
	script := filepath.Join(scriptDir, "reshade-linux.sh")
	if !fileExists(script) {
		return errors.Newf("install script %s not found", script)
	}

	answers := []string{
		"i",
		env.Target.GamePath,
		"y",
		"n",
		"64",
		"dxgi",
		"y",
		"",
	}

	addon := "0"
	if env.Config.ReshadeAddonSupport {
		addon = "1"
	}

	cmd := exec.Command("bash", script)
	cmd.Dir = scriptDir
	cmd.Stdin = strings.NewReader(strings.Join(answers, "\n"))
	cmd.Env = append(os.Environ(),
		"MAIN_PATH="+reshadeDataDir(env),
		"RESHADE_VERSION="+env.Config.ReshadeVersion,
		"RESHADE_ADDON_SUPPORT="+addon,
		"SHADER_REPOS=",
		"WINEPREFIX="+env.Target.WinePrefix,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "reshade-linux.sh: %s", tail(out, 2048))
	}
	env.Log.Debug("install script finished", "output_bytes", len(out))
	return nil
}

// tail returns the last n bytes of script output, enough to show the actual
// failure without dumping the whole transcript into an error message.
func tail(out []byte, n int) string {
	if len(out) <= n {
		return string(out)
	}
	return "..." + string(out[len(out)-n:])
}
