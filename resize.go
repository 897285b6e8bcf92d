package tuipix

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// FitMode is the policy for mapping a source image onto a target cell
// area. It is caller-supplied configuration, never auto-selected.
type FitMode int

const (
	// FitScale shrinks or grows the image to fit inside the target area,
	// preserving aspect ratio and letterboxing the remainder with the
	// session background color.
	FitScale FitMode = iota
	// FitCrop scales the image to cover the target area, then crops the
	// centered overflow.
	FitCrop
)

func (m FitMode) String() string {
	if m == FitCrop {
		return "crop"
	}
	return "scale"
}

// ResizeToArea resamples src onto an RGBA canvas of exactly
// area.Width*font.Width x area.Height*font.Height pixels, applying the fit
// policy. The canvas is pre-filled with bg, so FitScale output is
// letterboxed and FitCrop output is fully covered. A zero-cell area
// returns nil without invoking the resampler.
//
// Lanczos3 resampling keeps shrunk photographic images free of banding;
// there is deliberately no nearest-neighbor path here.
func ResizeToArea(src image.Image, area Rect, font FontSize, fit FitMode, bg color.RGBA) *image.RGBA {
	if src == nil || area.Empty() || !font.Valid() {
		return nil
	}

	canvasW, canvasH := font.PixelArea(area)
	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return canvas
	}

	switch fit {
	case FitCrop:
		w, h := coverDimensions(srcW, srcH, canvasW, canvasH)
		scaled := resize.Resize(uint(w), uint(h), src, resize.Lanczos3)
		crop := image.Rect(0, 0, canvasW, canvasH).Add(image.Pt((w-canvasW)/2, (h-canvasH)/2))
		xdraw.Copy(canvas, image.Point{}, scaled, crop, xdraw.Over, nil)
	default:
		w, h := fitDimensions(srcW, srcH, canvasW, canvasH)
		scaled := resize.Resize(uint(w), uint(h), src, resize.Lanczos3)
		offset := image.Pt((canvasW-w)/2, (canvasH-h)/2)
		xdraw.Copy(canvas, offset, scaled, scaled.Bounds(), xdraw.Over, nil)
	}

	return canvas
}

// fitDimensions returns the largest size at the source aspect ratio that
// fits inside maxW x maxH. Rounding error is at most one pixel.
func fitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	ratioW := float64(maxW) / float64(srcW)
	ratioH := float64(maxH) / float64(srcH)
	ratio := min(ratioW, ratioH)

	w := int(float64(srcW)*ratio + 0.5)
	h := int(float64(srcH)*ratio + 0.5)
	return clampDim(w, maxW), clampDim(h, maxH)
}

// coverDimensions returns the smallest size at the source aspect ratio
// that covers maxW x maxH.
func coverDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	ratioW := float64(maxW) / float64(srcW)
	ratioH := float64(maxH) / float64(srcH)
	ratio := max(ratioW, ratioH)

	// Round up so the scaled image never undershoots the canvas.
	w := int(float64(srcW)*ratio + 0.9999)
	h := int(float64(srcH)*ratio + 0.9999)
	if w < maxW {
		w = maxW
	}
	if h < maxH {
		h = maxH
	}
	return w, h
}

func clampDim(v, limit int) int {
	if v < 1 {
		return 1
	}
	if v > limit {
		return limit
	}
	return v
}

// toRGBA returns src as *image.RGBA, copying only when necessary.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
