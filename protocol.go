package tuipix

import (
	"fmt"
	"image"
	"strings"
)

// Protocol identifies a terminal graphics backend.
type Protocol int

const (
	// Halfblocks renders pixel pairs as Unicode half-block cells. Works in
	// any terminal and is the universal fallback.
	Halfblocks Protocol = iota
	// Sixel is the DEC palette run-length bitmap protocol.
	Sixel
	// Kitty is the kitty graphics protocol (chunked transmission with
	// terminal-side image resources).
	Kitty
	// ITerm2 is the iTerm2 inline-image protocol (single base64 sequence).
	ITerm2
)

func (p Protocol) String() string {
	switch p {
	case Halfblocks:
		return "halfblocks"
	case Sixel:
		return "sixel"
	case Kitty:
		return "kitty"
	case ITerm2:
		return "iterm2"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// Next cycles to the following protocol, wrapping around. Useful for a
// runtime protocol-switch key in host applications.
func (p Protocol) Next() Protocol {
	switch p {
	case Halfblocks:
		return Sixel
	case Sixel:
		return Kitty
	case Kitty:
		return ITerm2
	default:
		return Halfblocks
	}
}

// ParseProtocol maps a protocol name (as accepted by the TUIPIX_PROTOCOL
// override) to its Protocol value.
func ParseProtocol(name string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "halfblocks", "halfblock", "blocks":
		return Halfblocks, nil
	case "sixel":
		return Sixel, nil
	case "kitty":
		return Kitty, nil
	case "iterm2", "iterm":
		return ITerm2, nil
	default:
		return Halfblocks, fmt.Errorf("unknown protocol %q", name)
	}
}

// Stateful reports whether the backend leaves resources behind on the
// terminal side that must be explicitly deleted when superseded.
func (p Protocol) Stateful() bool {
	return p == Kitty
}

// Encoder turns a resized pixel canvas into terminal-ready output for one
// protocol. Encoders are selected once per session by the Picker and used
// by StatefulImage; they do not perform resizing.
type Encoder interface {
	// Protocol returns the backend this encoder implements.
	Protocol() Protocol

	// Encode produces a frame for a canvas that exactly covers area (the
	// canvas pixel size is area cells times the session font size). The
	// area origin is where the frame will be placed on screen.
	Encode(canvas *image.RGBA, area Rect) (*Frame, error)

	// Cleanup returns the escape bytes that remove a previously encoded
	// frame's terminal-side resources, or "" for stateless backends. The
	// caller must write it to the same output stream as the frame
	// payloads, in order, so deletions cannot race their placements.
	Cleanup(f *Frame) string
}
