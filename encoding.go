package tuipix

import (
	"encoding/base64"
	"sync"
)

// kittyChunkSize is the maximum encoded-data payload per kitty graphics
// escape, per the protocol's 4096-byte chunk rule.
const kittyChunkSize = 4096

// base64BufPool reuses encode buffers across frames; album-art sized
// payloads otherwise churn the allocator on every resize.
var base64BufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, kittyChunkSize*2)
		return &buf
	},
}

// base64Encode encodes src with a pooled buffer.
func base64Encode(src []byte) string {
	bufPtr := base64BufPool.Get().(*[]byte)
	defer base64BufPool.Put(bufPtr)

	encodedLen := base64.StdEncoding.EncodedLen(len(src))
	if cap(*bufPtr) < encodedLen {
		*bufPtr = make([]byte, encodedLen)
	} else {
		*bufPtr = (*bufPtr)[:encodedLen]
	}
	base64.StdEncoding.Encode(*bufPtr, src)
	return string(*bufPtr)
}

// chunkString splits s into size-byte pieces; the terminal reassembles
// them before decoding, so the split may land anywhere.
func chunkString(s string, size int) []string {
	if size <= 0 || len(s) <= size {
		return []string{s}
	}
	chunks := make([]string, 0, (len(s)+size-1)/size)
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	return append(chunks, s)
}
