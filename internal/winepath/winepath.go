// Package winepath maps host filesystem paths into the drive notation Wine
// exposes to Windows programs.
//
// Wine maps the unix root to the Z: drive and, with the default dosdevices
// layout used by Proton and XLCore, the user's home tree is reachable via
// X:. ReShade runs inside Wine, so any absolute path the installer writes
// into ReShade.ini has to use the Windows-side spelling.
package winepath

import "strings"

// ToWine converts an absolute host path to Wine X:-drive notation.
// Paths under home become X:<relative>, matching the dosdevices alias that
// points X: at the user's home directory; anything else falls back to X:
// plus the full path, which resolves as long as X: aliases the root.
func ToWine(path, home string) string {
	rel := path
	if home != "" && strings.HasPrefix(path, home) {
		rel = strings.TrimPrefix(path, home)
	}
	return "X:" + strings.ReplaceAll(rel, "/", `\`)
}

// Join appends windows-style components to a Wine path.
func Join(winePath string, parts ...string) string {
	elems := append([]string{winePath}, parts...)
	return strings.Join(elems, `\`)
}
