package tuipix

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name  string
		rect  Rect
		empty bool
		cells int
	}{
		{"zero value", Rect{}, true, 0},
		{"zero width", NewRect(1, 1, 0, 5), true, 0},
		{"negative height", NewRect(0, 0, 3, -1), true, 0},
		{"single cell", NewRect(10, 20, 1, 1), false, 1},
		{"regular area", NewRect(2, 1, 40, 12), false, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.rect.Empty())
			assert.Equal(t, tt.cells, tt.rect.Cells())
		})
	}
}

func TestRectEqualityIsFieldwise(t *testing.T) {
	// Same size at a different origin is a different rect; the cache key
	// must distinguish moved areas.
	assert.NotEqual(t, NewRect(0, 0, 10, 5), NewRect(1, 0, 10, 5))
	assert.Equal(t, NewRect(3, 4, 10, 5), NewRect(3, 4, 10, 5))
}

func TestFontSizePixelArea(t *testing.T) {
	w, h := FontSize{Width: 8, Height: 16}.PixelArea(NewRect(5, 5, 10, 6))
	assert.Equal(t, 80, w)
	assert.Equal(t, 96, h)
}

func TestCellsForImageRoundsUp(t *testing.T) {
	font := FontSize{Width: 8, Height: 16}

	tests := []struct {
		name   string
		imgW   int
		imgH   int
		wantW  int
		wantH  int
	}{
		{"exact multiple", 80, 96, 10, 6},
		{"one pixel over", 81, 97, 11, 7},
		{"smaller than a cell", 3, 5, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := font.CellsForImage(image.NewRGBA(image.Rect(0, 0, tt.imgW, tt.imgH)))
			assert.Equal(t, tt.wantW, r.Width)
			assert.Equal(t, tt.wantH, r.Height)
		})
	}
}

func TestCellsForImageNil(t *testing.T) {
	assert.True(t, FontSize{Width: 8, Height: 16}.CellsForImage(nil).Empty())
	assert.True(t, FontSize{}.CellsForImage(image.NewRGBA(image.Rect(0, 0, 8, 8))).Empty())
}
