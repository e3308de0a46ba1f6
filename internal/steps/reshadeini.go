package steps

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/paths"
	"github.com/thoreinstein/xivshade/internal/pipeline"
	"github.com/thoreinstein/xivshade/internal/reshadecfg"
	"github.com/thoreinstein/xivshade/internal/winepath"
)

// intermediateCacheDir holds ReShade's compiled shader cache, kept in the
// game dir so it lives on the same filesystem the game sees.
const intermediateCacheDir = "reshade-cache"

// ReshadeINI points ReShade.ini at the collection's shaders with Wine-side
// paths and seeds sensible defaults. Search paths are owned by the installer
// and overwritten; tuning keys are set only when absent so user choices
// survive re-runs.
type ReshadeINI struct {
	home func() string
}

// NewReshadeINI returns the step.
func NewReshadeINI() *ReshadeINI {
	return &ReshadeINI{home: paths.Home}
}

func (s *ReshadeINI) Name() string { return "reshadeini" }

func (s *ReshadeINI) iniPath(env *pipeline.Env) string {
	return filepath.Join(env.Target.GamePath, "ReShade.ini")
}

// patches computes the owned keys for the target. ReShade runs inside Wine,
// so every path is written in X:-drive notation.
func (s *ReshadeINI) patches(env *pipeline.Env) []reshadecfg.Patch {
	game := winepath.ToWine(env.Target.GamePath, s.home())

	patches := []reshadecfg.Patch{
		{Section: "GENERAL", Key: "EffectSearchPaths", Mode: reshadecfg.Overwrite,
			Value: winepath.Join(game, "reshade-shaders", "Shaders", "**")},
		{Section: "GENERAL", Key: "TextureSearchPaths", Mode: reshadecfg.Overwrite,
			Value: winepath.Join(game, "reshade-shaders", "Textures", "**")},
		{Section: "GENERAL", Key: "IntermediateCachePath", Mode: reshadecfg.Overwrite,
			Value: winepath.Join(game, intermediateCacheDir)},
		{Section: "GENERAL", Key: "NoReloadOnInit", Value: "1", Mode: reshadecfg.SetIfAbsent},
		{Section: "GENERAL", Key: "PerformanceMode", Value: "1", Mode: reshadecfg.SetIfAbsent},
		// Shift+F2: key 113 with the shift modifier.
		{Section: "INPUT", Key: "KeyOverlay", Value: "113,0,1,0", Mode: reshadecfg.SetIfAbsent},
	}

	for _, extra := range env.Config.ExtraEffectPaths {
		patches = append(patches, reshadecfg.Patch{
			Section: "GENERAL", Key: "EffectSearchPaths",
			Value: extra, Mode: reshadecfg.AppendToList,
		})
	}
	return patches
}

func (s *ReshadeINI) Check(env *pipeline.Env) (bool, error) {
	if !dirExists(filepath.Join(env.Target.GamePath, intermediateCacheDir)) {
		return false, nil
	}
	if !fileExists(s.iniPath(env)) {
		return false, nil
	}

	doc, err := reshadecfg.Load(s.iniPath(env))
	if err != nil {
		return false, err
	}
	return satisfied(doc, s.patches(env)), nil
}

func (s *ReshadeINI) Mutates(env *pipeline.Env) []string {
	return []string{s.iniPath(env)}
}

func (s *ReshadeINI) Apply(env *pipeline.Env) error {
	if err := paths.EnsureDir(filepath.Join(env.Target.GamePath, intermediateCacheDir), 0); err != nil {
		return errors.Wrap(err, "creating shader cache directory")
	}

	doc, err := reshadecfg.Load(s.iniPath(env))
	if err != nil {
		return err
	}
	if err := doc.Apply(s.patches(env)...); err != nil {
		return err
	}
	return doc.Save()
}

func (s *ReshadeINI) Verify(env *pipeline.Env) error {
	doc, err := reshadecfg.Load(s.iniPath(env))
	if err != nil {
		return err
	}
	if !satisfied(doc, s.patches(env)) {
		return errors.Newf("%s does not carry the expected configuration", s.iniPath(env))
	}
	return nil
}

// satisfied reports whether every patch is already reflected in the
// document. Overwrite and AppendToList keys may carry appended extras, so
// presence of the value as a list token counts.
func satisfied(doc *reshadecfg.Document, patches []reshadecfg.Patch) bool {
	for _, p := range patches {
		switch p.Mode {
		case reshadecfg.SetIfAbsent:
			if !doc.Has(p.Section, p.Key) {
				return false
			}
		default:
			if !containsToken(doc.Get(p.Section, p.Key), p.Value, reshadecfg.DefaultListSep) {
				return false
			}
		}
	}
	return true
}

func containsToken(value, token, sep string) bool {
	for _, part := range strings.Split(value, sep) {
		if strings.TrimSpace(part) == strings.TrimSpace(token) {
			return true
		}
	}
	return false
}
