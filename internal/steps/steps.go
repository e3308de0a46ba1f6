// Package steps provides the concrete installation steps xivshade runs, in
// their declared order:
//
//  1. prereqs       git and winetricks must be on PATH
//  2. workdir       create the working directory tree
//  3. reshade       install ReShade via the reshade-steam-proton script
//  4. d3dcompiler   real d3dcompiler DLLs in the game dir and prefixes
//  5. cleanshaders  remove the baseline ReShade_shaders directory
//  6. gposingway    sync the collection and symlink it into the game dir
//  7. presetconfig  seed ReShade.ini and ReShadePreset.ini from the collection
//  8. optionalpacks download iMMERSE and METEOR shader packs
//  9. reshadeini    patch ReShade.ini search paths and defaults
//
// Each step is safe to re-run: its check skips work that is already done.
package steps

import (
	"os"

	"github.com/thoreinstein/xivshade/internal/paths"
	"github.com/thoreinstein/xivshade/internal/pipeline"
)

// All returns the installation steps in execution order.
func All() []pipeline.Step {
	return []pipeline.Step{
		NewPrereqs(),
		NewWorkdir(),
		NewReshade(),
		NewD3DCompiler(),
		NewCleanShaders(),
		NewGposingway(),
		NewPresetConfig(),
		NewOptionalPacks(),
		NewReshadeINI(),
	}
}

// workDir resolves the working directory, honoring the config override.
func workDir(env *pipeline.Env) string {
	if env.Config != nil && env.Config.WorkDir != "" {
		return env.Config.WorkDir
	}
	return paths.WorkDir()
}

func backupDir(env *pipeline.Env) string {
	return paths.BackupDir(workDir(env))
}

func cacheDir(env *pipeline.Env) string {
	return paths.CacheDir(workDir(env))
}

func installerDir(env *pipeline.Env) string {
	return paths.ReshadeInstallerDir(workDir(env))
}

func reshadeDataDir(env *pipeline.Env) string {
	return paths.ReshadeDataDir(workDir(env))
}

func gposingwayDir(env *pipeline.Env) string {
	return paths.GposingwayDir(workDir(env))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
