// Package detect resolves where FFXIV is installed and which compatibility
// prefix it runs under.
//
// Resolution walks an ordered list of strategies, first success wins:
//
//  1. FFXIV_PATH / WINE_PREFIX environment variable overrides
//  2. Steam library manifests (libraryfolders.vdf + appmanifest probe)
//  3. XLCore's launcher.ini
//
// Partial results are never merged across strategies: a strategy either
// yields a complete Target or is skipped.
package detect

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
)

// Resolver is a single detection strategy.
// Resolve returns (nil, nil) when the strategy simply finds nothing;
// a non-nil error means the strategy found something it could not use.
type Resolver interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// Resolve attempts to locate an FFXIV install.
	Resolve() (*Target, error)
}

// DefaultResolvers returns the detection strategies in priority order.
func DefaultResolvers(home string) []Resolver {
	return []Resolver{
		&envResolver{},
		&steamResolver{home: home},
		&xlcoreResolver{home: home},
	}
}

// Detect runs the resolvers in order and returns the first valid Target.
// The winning target is validated (paths exist and are writable) before it
// is returned; an invalid winner is treated as not found and the scan
// continues with lower-priority strategies.
func Detect(log *slog.Logger, resolvers []Resolver) (*Target, error) {
	for _, r := range resolvers {
		target, err := r.Resolve()
		if err != nil {
			log.Debug("resolver failed", "resolver", r.Name(), "error", err)
			continue
		}
		if target == nil {
			log.Debug("resolver found nothing", "resolver", r.Name())
			continue
		}

		if err := target.Validate(); err != nil {
			log.Debug("resolver result failed validation",
				"resolver", r.Name(), "error", err)
			continue
		}

		log.Debug("install resolved",
			"resolver", r.Name(),
			"game", target.GamePath,
			"prefix", target.WinePrefix)
		return target, nil
	}

	return nil, errors.Wrap(xserrors.ErrNoInstallFound,
		"tried environment overrides, Steam, and XLCore")
}
