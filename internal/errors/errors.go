package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (no install found, bad flags, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for the installer's failure taxonomy. Every step outcome
// wraps exactly one of these so reports can name the failing kind.
var (
	// ErrNoInstallFound indicates no FFXIV installation could be resolved.
	// This is fatal before the pipeline starts.
	ErrNoInstallFound = errors.New("no FFXIV installation found")

	// ErrFetchFailed indicates a download or repository sync failed.
	// It is local to one step's action.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrVerificationFailed indicates a step's postcondition was not met.
	// The pipeline halts; later steps assume earlier steps succeeded.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrBackupMissing indicates a restore was attempted against a backup
	// file that no longer exists. Restore never silently no-ops.
	ErrBackupMissing = errors.New("backup file missing")

	// ErrMalformedConfig indicates an existing config file could not be
	// parsed. The file is left untouched rather than guessed at.
	ErrMalformedConfig = errors.New("malformed config file")

	// ErrPrereqMissing indicates a required external tool is not on PATH.
	ErrPrereqMissing = errors.New("required tool not found")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
