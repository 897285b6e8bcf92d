package tuipix

import (
	"fmt"
	"image/color"
	"strings"
)

// LowerHalfBlock is the glyph used by the halfblock backend. The cell's
// background paints the top pixel, the foreground paints the bottom one.
const LowerHalfBlock = '▄'

// Cell is one character position produced by the halfblock backend: a
// glyph plus 24-bit foreground and background colors. The host framework
// merges cells into its own screen buffer.
type Cell struct {
	Symbol rune
	Fg     color.RGBA
	Bg     color.RGBA
}

// Frame is the encoded output of one resize+encode pass, tagged with the
// cell area it was produced for and a generation counter. Frames are
// replaced, never mutated; StatefulImage discards the previous frame once
// a new one is committed.
//
// Exactly one of Cells/Payload is populated. Halfblock frames carry a
// row-major cell grid of Area.Width*Area.Height cells. Graphics-protocol
// frames carry opaque escape bytes to be written directly to the
// terminal's output stream, bypassing the host's cell buffer; the host
// should still reserve Area so text does not overwrite the image.
type Frame struct {
	Area       Rect
	Generation uint64

	Cells   []Cell
	Payload string

	// Cleanup carries the deletion escapes for a superseded frame's
	// terminal-side resources when this frame is a cell grid and has no
	// payload to carry them (a fallback after a failed encode). ANSI()
	// emits it; hosts that merge Cells into their own buffer must write
	// it to the terminal themselves. Direct frames chain cleanup inside
	// Payload instead and leave this empty.
	Cleanup string

	// ID is the terminal-side resource identifier for stateful protocols
	// (kitty). Zero for stateless backends.
	ID uint32
}

// CellAt returns the cell at column x, row y relative to the frame area.
func (f *Frame) CellAt(x, y int) Cell {
	return f.Cells[y*f.Area.Width+x]
}

// Direct reports whether the frame bypasses the cell buffer and must be
// written straight to the terminal.
func (f *Frame) Direct() bool {
	return f.Cells == nil
}

// ANSI flattens a halfblock cell grid into an escape-sequence string, one
// line per cell row, colors reset at the end of each line. For direct
// frames it returns the payload unchanged.
func (f *Frame) ANSI() string {
	if f == nil {
		return ""
	}
	if f.Direct() {
		return f.Payload
	}

	var sb strings.Builder
	sb.Grow(f.Area.Cells() * 40)
	// Deleting an already-deleted id is a no-op, so re-emitting on every
	// flatten is safe.
	sb.WriteString(f.Cleanup)
	for y := 0; y < f.Area.Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var last Cell
		havePrev := false
		for x := 0; x < f.Area.Width; x++ {
			c := f.CellAt(x, y)
			if !havePrev || c.Fg != last.Fg || c.Bg != last.Bg {
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm",
					c.Fg.R, c.Fg.G, c.Fg.B, c.Bg.R, c.Bg.G, c.Bg.B)
				last = c
				havePrev = true
			}
			sb.WriteRune(c.Symbol)
		}
		sb.WriteString("\x1b[0m")
	}
	return sb.String()
}

// Placeholder returns a block of spaces covering the frame's area, for
// hosts that lay out direct frames with string-width based layout engines.
func (f *Frame) Placeholder() string {
	if f == nil || f.Area.Empty() {
		return ""
	}
	line := strings.Repeat(" ", f.Area.Width)
	lines := make([]string, f.Area.Height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
