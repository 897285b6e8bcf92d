package tuipix

import (
	"os"
	"os/exec"
	"strings"
	"sync"
)

var tmuxPassthroughOnce sync.Once

// inTmux checks if the process runs inside tmux.
func inTmux() bool {
	return strings.HasPrefix(os.Getenv("TERM"), "tmux") ||
		os.Getenv("TERM_PROGRAM") == "tmux" ||
		os.Getenv("TMUX") != ""
}

// enableTmuxPassthrough asks tmux to pass escape sequences through to the
// outer terminal; graphics protocols do not work in tmux without it.
func enableTmuxPassthrough() {
	tmuxPassthroughOnce.Do(func() {
		// -p sets the option for the current pane only.
		cmd := exec.Command("tmux", "set", "-p", "allow-passthrough", "on")
		cmd.Stdin = nil
		cmd.Stdout = nil
		cmd.Stderr = nil
		_ = cmd.Run()
	})
}

// wrapTmux wraps an escape sequence in the tmux passthrough envelope:
// \ePtmux;\e{sequence with every ESC doubled}\e\\. Sequences that carry no
// ESC are returned unchanged.
func wrapTmux(seq string, isTmux bool) string {
	if !isTmux || !strings.Contains(seq, "\x1b") {
		return seq
	}
	return "\x1bPtmux;\x1b" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}

// tmuxEscapes returns the sequence fragments used when composing queries:
// the DCS opener, the ESC to use inside the body, and the terminator.
func tmuxEscapes(isTmux bool) (start, escape, end string) {
	if isTmux {
		return "\x1bPtmux;", "\x1b\x1b", "\x1b\\"
	}
	return "", "\x1b", ""
}
