package tuipix

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testBg   = color.RGBA{R: 0xff, A: 0xff}
	testFont = FontSize{Width: 8, Height: 16}
)

func TestResizeToAreaLetterbox(t *testing.T) {
	// A 64x48 source into a 10x6 cell area at 8x16 px cells: the 80x96
	// canvas gets 80x60 of content centered vertically, with 18 rows of
	// background above and below.
	src := uniformRGBA(64, 48, color.RGBA{B: 0xff, A: 0xff})
	canvas := ResizeToArea(src, NewRect(0, 0, 10, 6), testFont, FitScale, testBg)
	require.NotNil(t, canvas)

	b := canvas.Bounds()
	require.Equal(t, 80, b.Dx())
	require.Equal(t, 96, b.Dy())

	for _, y := range []int{0, 10, 17} {
		assert.Equal(t, testBg, canvas.RGBAAt(40, y), "letterbox row %d", y)
		assert.Equal(t, testBg, canvas.RGBAAt(40, 95-y), "letterbox row %d", 95-y)
	}
	for _, y := range []int{18, 48, 77} {
		got := canvas.RGBAAt(40, y)
		assert.Zero(t, got.R, "content row %d", y)
		assert.Equal(t, uint8(0xff), got.B, "content row %d", y)
	}
}

func TestResizeToAreaCropCoversCanvas(t *testing.T) {
	// A very wide source under FitCrop covers the whole canvas; no
	// background may remain visible.
	src := uniformRGBA(200, 50, color.RGBA{G: 0xff, A: 0xff})
	canvas := ResizeToArea(src, NewRect(0, 0, 10, 6), testFont, FitCrop, testBg)
	require.NotNil(t, canvas)

	for _, pt := range [][2]int{{0, 0}, {79, 0}, {0, 95}, {79, 95}, {40, 48}} {
		got := canvas.RGBAAt(pt[0], pt[1])
		assert.Zero(t, got.R, "pixel %v", pt)
		assert.Equal(t, uint8(0xff), got.G, "pixel %v", pt)
	}
}

func TestResizeToAreaEmpty(t *testing.T) {
	src := uniformRGBA(10, 10, testBg)
	assert.Nil(t, ResizeToArea(src, Rect{}, testFont, FitScale, testBg))
	assert.Nil(t, ResizeToArea(nil, NewRect(0, 0, 2, 2), testFont, FitScale, testBg))
	assert.Nil(t, ResizeToArea(src, NewRect(0, 0, 2, 2), FontSize{}, FitScale, testBg))
}

func TestResizeToAreaUpscales(t *testing.T) {
	src := uniformRGBA(4, 4, color.RGBA{B: 0xff, A: 0xff})
	canvas := ResizeToArea(src, NewRect(0, 0, 4, 2), testFont, FitScale, testBg)
	require.NotNil(t, canvas)

	// Square source in a 32x32 slot of the 32x32 canvas: fully covered.
	assert.Equal(t, uint8(0xff), canvas.RGBAAt(16, 16).B)
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name           string
		srcW, srcH     int
		maxW, maxH     int
		wantW, wantH   int
	}{
		{"width bound", 64, 48, 80, 96, 80, 60},
		{"height bound", 48, 64, 96, 80, 60, 80},
		{"exact fit", 80, 96, 80, 96, 80, 96},
		{"tiny source scales up", 1, 1, 50, 40, 40, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitDimensions(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.LessOrEqual(t, w, tt.maxW)
			assert.LessOrEqual(t, h, tt.maxH)
		})
	}
}

func TestCoverDimensionsNeverUndershoots(t *testing.T) {
	tests := []struct {
		srcW, srcH int
		maxW, maxH int
	}{
		{200, 50, 80, 96},
		{50, 200, 80, 96},
		{7, 13, 80, 96},
		{80, 96, 80, 96},
	}
	for _, tt := range tests {
		w, h := coverDimensions(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		assert.GreaterOrEqual(t, w, tt.maxW)
		assert.GreaterOrEqual(t, h, tt.maxH)
	}
}

func TestFitModeString(t *testing.T) {
	assert.Equal(t, "scale", FitScale.String())
	assert.Equal(t, "crop", FitCrop.String())
}
