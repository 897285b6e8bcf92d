// Package tuipix renders images inside terminal applications.
//
// A Picker probes the terminal once per session and decides which
// graphics backend to use: the kitty graphics protocol, sixel, iTerm2
// inline images, or Unicode half-block cells as the universal fallback.
// The Picker then acts as a factory for image widgets:
//
//	picker := tuipix.QueryPicker()
//	img := picker.NewImage(photo)
//	frame, err := img.Render(tuipix.NewRect(2, 1, 40, 20))
//
// StatefulImage caches the encoded frame and re-encodes only when the
// target area changes. ThreadedImage wraps the same pipeline in a
// background worker so resize and encode never block the host's event
// loop; it returns the last committed frame immediately and commits
// fresh frames as they arrive.
//
// Frames are either cell grids (halfblocks) that merge into the host's
// screen buffer, or opaque escape payloads (sixel, kitty, iTerm2) that
// must be written directly to the terminal. Inside tmux, payloads are
// wrapped in the passthrough envelope automatically.
package tuipix
