package tuipix

import (
	"io"
	"log"
)

// Logger receives non-fatal diagnostics: detection failures that degraded
// to halfblocks, encode failures that fell back for a frame. It discards
// by default since a TUI owns stdout; hosts that keep a debug log can
// point it elsewhere with SetLogger.
var logger = log.New(io.Discard, "tuipix: ", log.LstdFlags)

// SetLogger replaces the package logger. Passing nil restores the
// discarding default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "tuipix: ", log.LstdFlags)
	}
	logger = l
}
