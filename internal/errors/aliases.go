package errors

import "github.com/cockroachdb/errors"

// Re-exports so call sites use one errors package for construction,
// wrapping, and inspection alike.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
