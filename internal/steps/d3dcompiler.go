package steps

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/paths"
	"github.com/thoreinstein/xivshade/internal/pipeline"
	"github.com/thoreinstein/xivshade/pkg/fileutil"
)

// minCompilerSize separates the real d3dcompiler_47.dll (about 4MB) from the
// stub Wine ships; shaders fail to compile against the stub.
const minCompilerSize = 1 << 20

const (
	compiler47 = "d3dcompiler_47.dll"
	compiler43 = "d3dcompiler_43.dll"
)

// D3DCompiler puts the native d3dcompiler DLLs where FFXIV and ReShade look
// for them: the game directory, the Wine prefix's system32, and the XLCore
// Proton prefix's system32 when the target has one. The native DLL comes
// from winetricks, which downloads it into its cache.
type D3DCompiler struct {
	winetricks func(prefix string) error

	// cacheDLL is where winetricks leaves the downloaded DLL.
	cacheDLL string
}

// NewD3DCompiler returns the step wired to the real winetricks binary.
func NewD3DCompiler() *D3DCompiler {
	return &D3DCompiler{
		winetricks: runWinetricks,
		cacheDLL:   paths.WinetricksCacheDLL(),
	}
}

func (s *D3DCompiler) Name() string { return "d3dcompiler" }

// destDirs lists every directory that needs both DLLs.
func (s *D3DCompiler) destDirs(env *pipeline.Env) []string {
	dirs := []string{env.Target.GamePath, env.Target.System32()}
	if proton := env.Target.ProtonSystem32(); proton != "" {
		dirs = append(dirs, proton)
	}
	return dirs
}

func (s *D3DCompiler) Check(env *pipeline.Env) (bool, error) {
	for _, dir := range s.destDirs(env) {
		if !nativeDLL(filepath.Join(dir, compiler47)) || !nativeDLL(filepath.Join(dir, compiler43)) {
			return false, nil
		}
	}
	return true, nil
}

func (s *D3DCompiler) Mutates(env *pipeline.Env) []string { return nil }

func (s *D3DCompiler) Apply(env *pipeline.Env) error {
	src, err := s.source(env)
	if err != nil {
		return err
	}

	for _, dir := range s.destDirs(env) {
		for _, name := range []string{compiler47, compiler43} {
			dst := filepath.Join(dir, name)
			if nativeDLL(dst) {
				continue
			}
			if err := fileutil.CopyFile(src, dst, 0o644); err != nil {
				return errors.Wrapf(err, "installing %s", dst)
			}
		}
	}
	return nil
}

func (s *D3DCompiler) Verify(env *pipeline.Env) error {
	for _, name := range []string{compiler47, compiler43} {
		dll := filepath.Join(env.Target.GamePath, name)
		if !nativeDLL(dll) {
			return errors.Newf("%s is missing or is a stub", dll)
		}
	}
	return nil
}

// source locates a native d3dcompiler_47.dll, running winetricks once if no
// candidate is on disk yet.
func (s *D3DCompiler) source(env *pipeline.Env) (string, error) {
	if path, ok := s.findSource(env); ok {
		return path, nil
	}

	env.Log.Info("downloading d3dcompiler_47 via winetricks")
	if err := s.winetricks(env.Target.WinePrefix); err != nil {
		return "", err
	}

	if path, ok := s.findSource(env); ok {
		return path, nil
	}
	return "", errors.Newf("winetricks did not produce a native %s", compiler47)
}

func (s *D3DCompiler) findSource(env *pipeline.Env) (string, bool) {
	candidates := []string{
		s.cacheDLL,
		filepath.Join(env.Target.System32(), compiler47),
	}
	for _, path := range candidates {
		if nativeDLL(path) {
			return path, true
		}
	}
	return "", false
}

// nativeDLL reports whether path holds a real compiler DLL, judged by size.
func nativeDLL(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > minCompilerSize
}

func runWinetricks(prefix string) error {
	cmd := exec.Command("winetricks", "--unattended", "d3dcompiler_47")
	cmd.Env = append(os.Environ(), "WINEPREFIX="+prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "winetricks d3dcompiler_47: %s", tail(out, 2048))
	}
	return nil
}
