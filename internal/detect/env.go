package detect

import "os"

// Environment variable names recognized as manual overrides. When both are
// set and point at existing directories, they short-circuit all other
// detection.
const (
	EnvGamePath   = "FFXIV_PATH"
	EnvWinePrefix = "WINE_PREFIX"
)

// envResolver resolves a target from explicit environment variable overrides.
type envResolver struct{}

func (r *envResolver) Name() string { return string(SourceEnv) }

func (r *envResolver) Resolve() (*Target, error) {
	gamePath := os.Getenv(EnvGamePath)
	winePrefix := os.Getenv(EnvWinePrefix)

	// Both must be set; a lone override is ignored rather than merged with
	// another strategy's result.
	if gamePath == "" || winePrefix == "" {
		return nil, nil
	}

	return &Target{
		Source:     SourceEnv,
		GamePath:   gamePath,
		WinePrefix: winePrefix,
	}, nil
}
