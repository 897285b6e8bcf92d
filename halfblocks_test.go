package tuipix

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHalfblocksEncode(t *testing.T) {
	font := FontSize{Width: 8, Height: 16}
	area := NewRect(0, 0, 2, 2)

	// Top half of every cell red, bottom half blue.
	canvas := image.NewRGBA(image.Rect(0, 0, 16, 32))
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	for cy := 0; cy < 2; cy++ {
		top := image.Rect(0, cy*16, 16, cy*16+8)
		bottom := image.Rect(0, cy*16+8, 16, (cy+1)*16)
		draw.Draw(canvas, top, image.NewUniform(red), image.Point{}, draw.Src)
		draw.Draw(canvas, bottom, image.NewUniform(blue), image.Point{}, draw.Src)
	}

	f, err := newHalfblocksEncoder(font).Encode(canvas, area)
	require.NoError(t, err)
	require.Len(t, f.Cells, 4)
	assert.False(t, f.Direct())
	assert.Equal(t, area, f.Area)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			cell := f.CellAt(x, y)
			assert.Equal(t, LowerHalfBlock, cell.Symbol)
			assert.Equal(t, red, cell.Bg, "cell %d,%d background carries the top pixel", x, y)
			assert.Equal(t, blue, cell.Fg, "cell %d,%d foreground carries the bottom pixel", x, y)
		}
	}
}

func TestHalfblocksAveragesBlocks(t *testing.T) {
	font := FontSize{Width: 2, Height: 2}

	// A half-cell block of one black and one white pixel averages to
	// mid-gray.
	canvas := image.NewRGBA(image.Rect(0, 0, 2, 2))
	canvas.SetRGBA(0, 0, color.RGBA{A: 0xff})
	canvas.SetRGBA(1, 0, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	canvas.SetRGBA(0, 1, color.RGBA{A: 0xff})
	canvas.SetRGBA(1, 1, color.RGBA{A: 0xff})

	f, err := newHalfblocksEncoder(font).Encode(canvas, NewRect(0, 0, 1, 1))
	require.NoError(t, err)

	cell := f.CellAt(0, 0)
	assert.Equal(t, color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}, cell.Bg)
	assert.Equal(t, color.RGBA{A: 0xff}, cell.Fg)
}

func TestHalfblocksNilCanvas(t *testing.T) {
	f, err := newHalfblocksEncoder(DefaultFontSize).Encode(nil, NewRect(0, 0, 2, 2))
	require.NoError(t, err)
	assert.Nil(t, f.Cells)
}

func TestHalfblocksCleanupEmpty(t *testing.T) {
	e := newHalfblocksEncoder(DefaultFontSize)
	assert.Equal(t, "", e.Cleanup(&Frame{Area: NewRect(0, 0, 1, 1)}))
	assert.Equal(t, Halfblocks, e.Protocol())
}
