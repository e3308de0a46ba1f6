// Package errors provides error handling conventions for the xivshade CLI.
//
// This package defines sentinel errors for the installer's failure taxonomy,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific failure kinds
// using [errors.Is]:
//
//	if errors.Is(err, xserrors.ErrNoInstallFound) {
//	    // detection failed; suggest environment variable overrides
//	}
//
// Each step outcome in a pipeline run wraps exactly one sentinel, so the
// final report can attribute every failure to a single kind.
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (no install found, bad flags, etc.)
//   - ExitSystem (2): System-related error (I/O, network, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [errors.Unwrap] and [errors.As]:
//
//	err := xserrors.NewUserError(xserrors.ErrNoInstallFound, "export FFXIV_PATH and WINE_PREFIX")
//	var exitErr *xserrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
