package tuipix

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"testing"
)

// uniformRGBA returns a w x h canvas filled with c.
func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// gradientRGBA returns a w x h canvas with a red/green position gradient,
// so resized output varies per pixel and quantizers get real work.
func gradientRGBA(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 0x40,
				A: 0xff,
			})
		}
	}
	return img
}

// noiseRGBA returns a w x h canvas of seeded pseudo-random pixels;
// useful when a test needs payloads that do not compress.
func noiseRGBA(w, h int) *image.RGBA {
	rng := rand.New(rand.NewPCG(42, 7))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		v := rng.Uint32()
		img.Pix[i] = uint8(v)
		img.Pix[i+1] = uint8(v >> 8)
		img.Pix[i+2] = uint8(v >> 16)
		img.Pix[i+3] = 0xff
	}
	return img
}

// clearDetectionEnv blanks every environment variable the picker consults
// so tests control detection completely.
func clearDetectionEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		ProtocolEnv, "TMUX", "TERM", "TERM_PROGRAM", "LC_TERMINAL",
		"KITTY_WINDOW_ID", "ITERM_SESSION_ID", "WEZTERM_EXECUTABLE",
	} {
		t.Setenv(v, "")
	}
}
