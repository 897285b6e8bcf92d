package tuipix

import (
	"image"
	"image/color"
	"image/draw"
)

// StatefulImage renders one source image into a cell area, caching the
// encoded frame. Re-rendering into the same area returns the cached
// frame without touching the resize or encode paths; a different area
// (any origin or size change) re-encodes and supersedes the old frame,
// chaining its cleanup sequence in front of the new payload so stateful
// backends never leak terminal-side resources.
//
// The source is flattened once at attach time and never mutated. Not
// safe for concurrent use; wrap in a ThreadedImage for that.
type StatefulImage struct {
	enc      Encoder
	fallback Encoder
	font     FontSize
	bg       color.RGBA
	src      *image.RGBA
	fit      FitMode

	frame      *Frame
	generation uint64
	invalid    bool
}

// NewImage attaches a source image to the session, flattening any
// transparency onto the session background color.
func (p *Picker) NewImage(src image.Image) *StatefulImage {
	s := &StatefulImage{
		enc:  p.newEncoder(),
		font: p.font,
		bg:   p.background,
		src:  flattenSource(src, p.background),
	}
	if s.enc.Protocol() != Halfblocks {
		s.fallback = newHalfblocksEncoder(p.font)
	}
	return s
}

// Protocol returns the backend this widget encodes with.
func (s *StatefulImage) Protocol() Protocol {
	return s.enc.Protocol()
}

// Fit returns the current fit policy.
func (s *StatefulImage) Fit() FitMode {
	return s.fit
}

// SetFit changes the fit policy and invalidates the cached frame.
func (s *StatefulImage) SetFit(fit FitMode) {
	if fit != s.fit {
		s.fit = fit
		s.invalid = true
	}
}

// Frame returns the last rendered frame, or nil before the first render.
func (s *StatefulImage) Frame() *Frame {
	return s.frame
}

// Render produces the frame for area. An empty area is a valid
// "draw nothing" request and returns (nil, nil). Encoding failures fall
// back to halfblocks, so a render only errors when even the fallback
// cannot produce output.
func (s *StatefulImage) Render(area Rect) (*Frame, error) {
	if area.Empty() {
		return nil, nil
	}
	if !s.invalid && s.frame != nil && s.frame.Area == area {
		return s.frame, nil
	}

	f, err := s.encode(area, s.fit)
	if err != nil {
		return nil, err
	}
	s.generation++
	f.Generation = s.generation
	s.adopt(f)
	return f, nil
}

// Close discards the cached frame and returns the escape bytes that
// remove its terminal-side resources. The caller must write them to the
// terminal; for stateless backends the string is empty.
func (s *StatefulImage) Close() string {
	cleanup := s.enc.Cleanup(s.frame)
	s.frame = nil
	return cleanup
}

// encode runs the resize+encode pipeline without committing the result.
func (s *StatefulImage) encode(area Rect, fit FitMode) (*Frame, error) {
	canvas := ResizeToArea(s.src, area, s.font, fit, s.bg)
	f, err := s.enc.Encode(canvas, area)
	if err == nil {
		return f, nil
	}
	if s.fallback == nil {
		return nil, err
	}
	logger.Printf("%s encode failed, falling back to halfblocks: %v", s.enc.Protocol(), err)
	return s.fallback.Encode(canvas, area)
}

// adopt installs f as the current frame, chaining the previous frame's
// cleanup in front of the payload. A cell-grid frame has no payload the
// host would write, so its cleanup rides in Frame.Cleanup instead; this
// matters when a stateful encode fails and the halfblock fallback
// supersedes a frame that still owns a terminal-side image.
func (s *StatefulImage) adopt(f *Frame) {
	if cleanup := s.enc.Cleanup(s.frame); cleanup != "" {
		if f.Direct() {
			f.Payload = cleanup + f.Payload
		} else {
			f.Cleanup = cleanup
		}
	}
	s.frame = f
	s.invalid = false
}

// flattenSource copies src into an RGBA buffer over the background color,
// so downstream encoders always see opaque pixels. A transparent
// background skips the underlay.
func flattenSource(src image.Image, bg color.RGBA) *image.RGBA {
	if src == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	if bg.A == 0 {
		return toRGBA(src)
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
