package tuipix

import (
	"image"
	"image/color"
)

// HalfblocksEncoder renders two vertically stacked pixels per cell using
// the lower half block glyph: the cell background carries the top pixel,
// the foreground carries the bottom one. It needs nothing from the
// terminal beyond 24-bit color and never fails, which is what makes it
// the universal fallback backend.
type HalfblocksEncoder struct {
	font FontSize
}

func newHalfblocksEncoder(font FontSize) *HalfblocksEncoder {
	return &HalfblocksEncoder{font: font}
}

func (e *HalfblocksEncoder) Protocol() Protocol {
	return Halfblocks
}

// Encode averages each half-cell pixel block of the canvas down to one
// color, producing a row-major cell grid.
func (e *HalfblocksEncoder) Encode(canvas *image.RGBA, area Rect) (*Frame, error) {
	if canvas == nil || area.Empty() {
		return &Frame{Area: area}, nil
	}

	cells := make([]Cell, area.Cells())
	halfH := e.font.Height / 2
	if halfH < 1 {
		halfH = 1
	}
	for cy := 0; cy < area.Height; cy++ {
		for cx := 0; cx < area.Width; cx++ {
			x0 := cx * e.font.Width
			y0 := cy * e.font.Height
			top := averageBlock(canvas, x0, y0, e.font.Width, halfH)
			bottom := averageBlock(canvas, x0, y0+halfH, e.font.Width, e.font.Height-halfH)
			cells[cy*area.Width+cx] = Cell{
				Symbol: LowerHalfBlock,
				Fg:     bottom,
				Bg:     top,
			}
		}
	}

	return &Frame{Area: area, Cells: cells}, nil
}

// Cleanup is a no-op; halfblock frames leave nothing behind on the
// terminal side.
func (e *HalfblocksEncoder) Cleanup(_ *Frame) string {
	return ""
}

// averageBlock returns the mean color of a w x h pixel block, clamped to
// the canvas bounds.
func averageBlock(canvas *image.RGBA, x0, y0, w, h int) color.RGBA {
	b := canvas.Bounds()
	x1 := min(x0+w, b.Max.X)
	y1 := min(y0+h, b.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return color.RGBA{A: 0xff}
	}

	var r, g, bl uint64
	for y := y0; y < y1; y++ {
		row := canvas.Pix[canvas.PixOffset(x0, y) : canvas.PixOffset(x1, y) : canvas.PixOffset(x1, y)]
		for i := 0; i < len(row); i += 4 {
			r += uint64(row[i])
			g += uint64(row[i+1])
			bl += uint64(row[i+2])
		}
	}
	n := uint64((x1 - x0) * (y1 - y0))
	return color.RGBA{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(bl / n),
		A: 0xff,
	}
}
