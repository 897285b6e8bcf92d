package tuipix

import "image"

// Rect is a rectangle in terminal cell coordinates. X/Y are the origin
// column and row, Width/Height are in cells. Two rects are equal iff all
// four fields match; that equality is the cache-invalidation key for
// StatefulImage, not geometric overlap.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect creates a Rect at the given origin and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rect covers zero cells. Rendering into an
// empty rect is a valid "draw nothing" request, never an error.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Cells returns the number of cells the rect covers.
func (r Rect) Cells() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// FontSize is the terminal's character cell size in pixels.
type FontSize struct {
	Width  int
	Height int
}

// DefaultFontSize is the best-effort assumption when the terminal cannot
// report its cell size: 8x16 pixels, the common 1:2 cell aspect ratio.
var DefaultFontSize = FontSize{Width: 8, Height: 16}

// Valid reports whether both dimensions are positive.
func (f FontSize) Valid() bool {
	return f.Width > 0 && f.Height > 0
}

// PixelArea converts a cell rect to its pixel dimensions under this font.
func (f FontSize) PixelArea(r Rect) (width, height int) {
	return r.Width * f.Width, r.Height * f.Height
}

// CellsForImage rounds an image's pixel size up to the cell area it would
// naturally occupy under this font size.
func (f FontSize) CellsForImage(img image.Image) Rect {
	if img == nil || !f.Valid() {
		return Rect{}
	}
	b := img.Bounds()
	return Rect{
		Width:  (b.Dx() + f.Width - 1) / f.Width,
		Height: (b.Dy() + f.Height - 1) / f.Height,
	}
}
