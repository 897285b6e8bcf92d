package tuipix

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// ITerm2Encoder emits the iTerm2 inline-image OSC: the canvas as a PNG,
// base64-encoded, in a single sequence. The protocol keeps no
// terminal-side state, so there is nothing to clean up.
type ITerm2Encoder struct {
	isTmux bool
}

func newITerm2Encoder(isTmux bool) *ITerm2Encoder {
	return &ITerm2Encoder{isTmux: isTmux}
}

func (e *ITerm2Encoder) Protocol() Protocol {
	return ITerm2
}

func (e *ITerm2Encoder) Encode(canvas *image.RGBA, area Rect) (*Frame, error) {
	if canvas == nil || area.Empty() {
		return &Frame{Area: area}, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	seq := fmt.Sprintf(
		"\x1b[s\x1b[%d;%dH\x1b]1337;File=inline=1;size=%d;width=%dpx;height=%dpx;doNotMoveCursor=1:%s\x07\x1b[u",
		area.Y+1, area.X+1, buf.Len(), w, h, base64Encode(buf.Bytes()))

	return &Frame{Area: area, Payload: wrapTmux(seq, e.isTmux)}, nil
}

func (e *ITerm2Encoder) Cleanup(_ *Frame) string {
	return ""
}
