package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is satisfied by os.File and any wrapper exposing a descriptor.
type fdWriter interface {
	Fd() uintptr
}

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI color output is appropriate for w.
// Color is suppressed for non-terminals, when NO_COLOR is set
// (https://no-color.org), and for TERM=dumb.
func SupportsColor(w io.Writer) bool {
	if !IsTTY(w) {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
