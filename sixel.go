package tuipix

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/soniakeys/quant/median"
)

const (
	// DefaultSixelColors is the palette size registered with the terminal.
	// 256 is the ceiling most sixel terminals allocate.
	DefaultSixelColors = 256

	// DefaultMaxSixelSequence caps the byte length of one DCS sequence.
	// Frames that encode larger than this are split at cell-row boundaries
	// into independent sequences, each positioned with its own cursor
	// address, so a slow terminal never sits on a single megabyte-scale
	// escape.
	DefaultMaxSixelSequence = 1 << 20
)

// SixelEncoder emits DEC sixel graphics: a median-cut palette registered
// up front, then the canvas in six-pixel bands with run-length encoded
// columns. Quantization and dithering are deterministic, so equal
// canvases always produce byte-identical payloads.
type SixelEncoder struct {
	font   FontSize
	colors int
	maxSeq int
	isTmux bool
}

func newSixelEncoder(font FontSize, isTmux bool) *SixelEncoder {
	return &SixelEncoder{
		font:   font,
		colors: DefaultSixelColors,
		maxSeq: DefaultMaxSixelSequence,
		isTmux: isTmux,
	}
}

func (e *SixelEncoder) Protocol() Protocol {
	return Sixel
}

func (e *SixelEncoder) Encode(canvas *image.RGBA, area Rect) (*Frame, error) {
	if canvas == nil || area.Empty() {
		return &Frame{Area: area}, nil
	}

	paletted, err := e.quantize(canvas)
	if err != nil {
		return nil, err
	}
	palette := paletteDefinitions(paletted)

	var sb strings.Builder
	sb.WriteString("\x1b[s")
	for _, s := range e.slices(paletted, palette, area) {
		// Each slice is a complete DCS sequence addressed independently,
		// so splitting never shifts rows relative to the target area.
		fmt.Fprintf(&sb, "\x1b[%d;%dH", area.Y+s.cellRow+1, area.X+1)
		sb.WriteString(s.seq)
	}
	sb.WriteString("\x1b[u")

	return &Frame{Area: area, Payload: wrapTmux(sb.String(), e.isTmux)}, nil
}

// Cleanup is a no-op; sixel output is plain cell content to the terminal
// and vanishes when overdrawn.
func (e *SixelEncoder) Cleanup(_ *Frame) string {
	return ""
}

// quantize reduces the canvas to at most e.colors colors with
// Floyd-Steinberg error diffusion.
func (e *SixelEncoder) quantize(canvas *image.RGBA) (*image.Paletted, error) {
	cpal := median.Quantizer(e.colors).Palette(canvas).ColorPalette()
	if len(cpal) == 0 {
		return nil, fmt.Errorf("quantizer produced empty palette for %v canvas", canvas.Bounds().Size())
	}
	paletted := image.NewPaletted(canvas.Bounds(), cpal)
	draw.FloydSteinberg.Draw(paletted, canvas.Bounds(), canvas, image.Point{})
	return paletted, nil
}

// paletteDefinitions renders the palette registers: #i;2;r;g;b with
// channels on the 0-100 sixel scale.
func paletteDefinitions(p *image.Paletted) string {
	var sb strings.Builder
	for i, c := range p.Palette {
		r, g, b, _ := c.RGBA()
		fmt.Fprintf(&sb, "#%d;2;%d;%d;%d", i,
			(r>>8)*100/255, (g>>8)*100/255, (b>>8)*100/255)
	}
	return sb.String()
}

type sixelSlice struct {
	cellRow int
	seq     string
}

// slices packs cell rows into DCS sequences, splitting whenever a
// sequence would exceed maxSeq. Splits land only on cell-row boundaries;
// each slice restarts band encoding at its own raster origin.
func (e *SixelEncoder) slices(p *image.Paletted, palette string, area Rect) []sixelSlice {
	width := p.Bounds().Dx()
	rowPx := e.font.Height

	assemble := func(y0, y1 int) string {
		return fmt.Sprintf("\x1bP0;1;0q\"1;1;%d;%d%s%s\x1b\\",
			width, y1-y0, palette, sixelBody(p, y0, y1))
	}

	// Common case: the whole frame fits in one sequence.
	whole := assemble(0, p.Bounds().Dy())
	if len(whole) <= e.maxSeq || area.Height <= 1 {
		return []sixelSlice{{cellRow: 0, seq: whole}}
	}

	var out []sixelSlice
	start := 0
	prev := ""
	for cy := 1; cy <= area.Height; cy++ {
		cur := assemble(start*rowPx, cy*rowPx)
		if len(cur) > e.maxSeq && cy-1 > start {
			out = append(out, sixelSlice{cellRow: start, seq: prev})
			start = cy - 1
			cur = assemble(start*rowPx, cy*rowPx)
		}
		prev = cur
	}
	return append(out, sixelSlice{cellRow: start, seq: prev})
}

// sixelBody encodes pixel rows [y0, y1) as six-pixel bands. Within a band
// every used palette register is emitted as one run-length encoded pass
// over the columns, passes separated by carriage returns.
func sixelBody(p *image.Paletted, y0, y1 int) string {
	width := p.Bounds().Dx()
	var sb strings.Builder

	for by := y0; by < y1; by += 6 {
		bandH := min(6, y1-by)

		var used [256]bool
		for j := 0; j < bandH; j++ {
			row := p.Pix[(by+j)*p.Stride : (by+j)*p.Stride+width]
			for _, idx := range row {
				used[idx] = true
			}
		}

		first := true
		for idx := range used {
			if !used[idx] {
				continue
			}
			if !first {
				sb.WriteByte('$')
			}
			first = false
			fmt.Fprintf(&sb, "#%d", idx)
			writeBandRun(&sb, p, uint8(idx), by, bandH, width)
		}
		if by+6 < y1 {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// writeBandRun emits one palette register's column bitmasks for a band,
// collapsing runs of four or more into !<count> repeats.
func writeBandRun(sb *strings.Builder, p *image.Paletted, idx uint8, by, bandH, width int) {
	runChar := byte(0)
	runLen := 0
	flush := func() {
		if runLen == 0 {
			return
		}
		if runLen > 3 {
			fmt.Fprintf(sb, "!%d", runLen)
			sb.WriteByte(runChar)
		} else {
			for i := 0; i < runLen; i++ {
				sb.WriteByte(runChar)
			}
		}
		runLen = 0
	}

	for x := 0; x < width; x++ {
		var bits byte
		for j := 0; j < bandH; j++ {
			if p.Pix[(by+j)*p.Stride+x] == idx {
				bits |= 1 << j
			}
		}
		ch := 0x3f + bits
		if runLen > 0 && ch != runChar {
			flush()
		}
		runChar = ch
		runLen++
	}
	flush()
}
