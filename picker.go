package tuipix

import (
	"image/color"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// ProtocolEnv overrides protocol detection when set to one of
// "halfblocks", "sixel", "kitty" or "iterm2".
const ProtocolEnv = "TUIPIX_PROTOCOL"

// DefaultQueryTimeout bounds the capability round-trip with the terminal.
const DefaultQueryTimeout = time.Second

// Picker is the immutable session-wide configuration: which protocol to
// encode with, the terminal's cell pixel size, and the background fill
// used for letterboxing. It is created once at startup and shared
// read-only by every widget; re-probing (after the user moves the session
// to another terminal, say) means building a new Picker.
type Picker struct {
	protocol   Protocol
	font       FontSize
	background color.RGBA
	isTmux     bool
	kittyID    uint32
}

// QueryPicker detects the terminal's graphics support, performing one
// bounded write/read exchange on stdio. Call it after entering the
// alternate screen but before the host starts reading terminal events.
//
// Detection never fails: if nothing can be determined the session uses
// halfblocks with an 8x16 cell size.
func QueryPicker() *Picker {
	return QueryPickerTimeout(DefaultQueryTimeout)
}

// QueryPickerTimeout is QueryPicker with an explicit round-trip bound.
func QueryPickerTimeout(timeout time.Duration) *Picker {
	isTmux := inTmux()
	if isTmux {
		enableTmuxPassthrough()
	}

	var caps termCaps
	caps, err := queryCapabilities(isTmux, timeout)
	if err != nil {
		logger.Printf("capability query failed, using environment detection: %v", err)
	}

	var capProto *Protocol
	if caps.kitty {
		capProto = protoPtr(Kitty)
	} else if caps.sixel {
		capProto = protoPtr(Sixel)
	}

	font := caps.font
	if !font.Valid() {
		font = fontSizeFallback()
	}

	return newPicker(resolveProtocol(isTmux, capProto), font, isTmux)
}

// NewPicker builds a session configuration from a known font size without
// touching the terminal; protocol selection uses environment signals
// only. This is the path for hosts that cannot spare a stdio round-trip
// (or for Windows, where the cell-size ioctl is unavailable).
func NewPicker(font FontSize) *Picker {
	isTmux := inTmux()
	if isTmux {
		enableTmuxPassthrough()
	}
	return newPicker(resolveProtocol(isTmux, nil), font, isTmux)
}

func newPicker(protocol Protocol, font FontSize, isTmux bool) *Picker {
	if !font.Valid() {
		font = DefaultFontSize
	}
	return &Picker{
		protocol:   protocol,
		font:       font,
		background: color.RGBA{A: 0xff},
		isTmux:     isTmux,
		// Random seed so two processes sharing one terminal are unlikely
		// to collide on kitty image ids.
		kittyID: rand.Uint32(),
	}
}

// resolveProtocol merges the detection sources in precedence order:
// explicit override, tmux outer-terminal guess, iTerm2 environment hints,
// queried capabilities, halfblocks.
func resolveProtocol(isTmux bool, capProto *Protocol) Protocol {
	if name := os.Getenv(ProtocolEnv); name != "" {
		if p, err := ParseProtocol(name); err == nil {
			return p
		}
		logger.Printf("ignoring invalid %s=%q", ProtocolEnv, os.Getenv(ProtocolEnv))
	}

	if isTmux {
		if p := tmuxOuterProtocol(); p != nil {
			return *p
		}
	}
	if p := iterm2FromEnv(); p != nil {
		return *p
	}
	if capProto != nil {
		return *capProto
	}
	return Halfblocks
}

// tmuxOuterProtocol guesses the terminal hosting tmux from env vars the
// outer terminal leaves behind. Crude (vars leak across nested sessions)
// but capability queries answered by tmux itself say nothing about the
// outer terminal.
func tmuxOuterProtocol() *Protocol {
	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return protoPtr(Kitty)
	case os.Getenv("ITERM_SESSION_ID") != "":
		return protoPtr(ITerm2)
	case os.Getenv("WEZTERM_EXECUTABLE") != "":
		return protoPtr(ITerm2)
	default:
		return nil
	}
}

// iterm2FromEnv recognizes terminals that implement the iTerm2 inline
// image protocol but do not answer the graphics capability queries.
func iterm2FromEnv() *Protocol {
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, hint := range []string{"iTerm", "WezTerm", "mintty", "vscode", "Tabby", "Hyper"} {
		if strings.Contains(termProgram, hint) {
			return protoPtr(ITerm2)
		}
	}
	if strings.Contains(os.Getenv("LC_TERMINAL"), "iTerm") {
		return protoPtr(ITerm2)
	}
	return nil
}

func protoPtr(p Protocol) *Protocol {
	return &p
}

// Protocol returns the selected backend.
func (p *Picker) Protocol() Protocol {
	return p.protocol
}

// SetProtocol overrides the selected backend, for hosts that persist a
// user choice or offer a cycle key.
func (p *Picker) SetProtocol(protocol Protocol) {
	p.protocol = protocol
}

// FontSize returns the detected cell pixel size.
func (p *Picker) FontSize() FontSize {
	return p.font
}

// Background returns the letterbox/underlay fill color.
func (p *Picker) Background() color.RGBA {
	return p.background
}

// SetBackground sets the letterbox/underlay fill color.
func (p *Picker) SetBackground(c color.RGBA) {
	p.background = c
}

// SetBackgroundHex sets the fill color from a "#rrggbb" string.
func (p *Picker) SetBackgroundHex(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return err
	}
	r, g, b := c.RGB255()
	p.background = color.RGBA{R: r, G: g, B: b, A: 0xff}
	return nil
}

// InTmux reports whether the session runs inside tmux; payloads are
// passthrough-wrapped when it does.
func (p *Picker) InTmux() bool {
	return p.isTmux
}

// newEncoder builds the backend encoder for one widget. Kitty encoders
// get their own image id so widgets never clobber each other's
// terminal-side resources.
func (p *Picker) newEncoder() Encoder {
	switch p.protocol {
	case Sixel:
		return newSixelEncoder(p.font, p.isTmux)
	case Kitty:
		return newKittyEncoder(p.nextKittyID(), p.font, p.isTmux)
	case ITerm2:
		return newITerm2Encoder(p.isTmux)
	default:
		return newHalfblocksEncoder(p.font)
	}
}

func (p *Picker) nextKittyID() uint32 {
	p.kittyID++
	if p.kittyID == 0 {
		p.kittyID = 1
	}
	return p.kittyID
}
