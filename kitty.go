package tuipix

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// KittyEncoder speaks the kitty graphics protocol: raw RGBA pixels are
// zlib-compressed, base64-encoded and transmitted in 4096-byte chunks
// under a per-widget image id, then placed with a unicode-placeholder-free
// direct placement. The terminal keeps the decoded image, so superseded
// frames must be deleted explicitly; Cleanup emits that deletion.
type KittyEncoder struct {
	id     uint32
	font   FontSize
	isTmux bool
}

func newKittyEncoder(id uint32, font FontSize, isTmux bool) *KittyEncoder {
	return &KittyEncoder{id: id, font: font, isTmux: isTmux}
}

func (e *KittyEncoder) Protocol() Protocol {
	return Kitty
}

func (e *KittyEncoder) Encode(canvas *image.RGBA, area Rect) (*Frame, error) {
	if canvas == nil || area.Empty() {
		return &Frame{Area: area, ID: e.id}, nil
	}

	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	compressed, err := zlibCompress(rgbaPixels(canvas))
	if err != nil {
		return nil, fmt.Errorf("failed to compress kitty payload: %w", err)
	}
	chunks := chunkString(base64Encode(compressed), kittyChunkSize)

	var sb strings.Builder
	for i, chunk := range chunks {
		m := 1
		if i == len(chunks)-1 {
			m = 0
		}
		if i == 0 {
			// q=2 suppresses replies; the host never reads them.
			fmt.Fprintf(&sb, "\x1b_Ga=t,q=2,i=%d,f=32,s=%d,v=%d,o=z,m=%d;%s\x1b\\",
				e.id, w, h, m, chunk)
		} else {
			fmt.Fprintf(&sb, "\x1b_Gm=%d;%s\x1b\\", m, chunk)
		}
	}

	// Place over the target cells without moving the host's cursor.
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH\x1b_Ga=p,i=%d,p=1,c=%d,r=%d,C=1,q=2\x1b\\\x1b[u",
		area.Y+1, area.X+1, e.id, area.Width, area.Height)

	return &Frame{Area: area, Payload: wrapTmux(sb.String(), e.isTmux), ID: e.id}, nil
}

// Cleanup deletes the frame's terminal-side image and its placements.
func (e *KittyEncoder) Cleanup(f *Frame) string {
	if f == nil || f.ID == 0 {
		return ""
	}
	return wrapTmux(fmt.Sprintf("\x1b_Ga=d,d=i,i=%d,q=2\x1b\\", f.ID), e.isTmux)
}

// rgbaPixels returns the canvas pixels as a tightly packed RGBA byte
// stream, copying only when the stride carries padding.
func rgbaPixels(canvas *image.RGBA) []byte {
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()
	if canvas.Stride == 4*w {
		return canvas.Pix[:4*w*h]
	}
	packed := make([]byte, 0, 4*w*h)
	for y := 0; y < h; y++ {
		off := y * canvas.Stride
		packed = append(packed, canvas.Pix[off:off+4*w]...)
	}
	return packed
}

func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		zw.Close() //nolint:errcheck
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
