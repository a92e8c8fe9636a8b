package testing

import (
	"crypto/rand"
	"testing"

	"github.com/dargueta/rleanim"
	"github.com/stretchr/testify/require"
)

// CreateRandomPixels creates a pixel buffer of the given dimensions filled with
// random bytes. It is guaranteed to either return a valid slice or fail the test
// and abort.
//
// Random alpha values don't survive a trip through PNG intact because image
// buffers are premultiplied, so don't use this to build image files. See
// [CreateBandPixels] for that.
func CreateRandomPixels(t *testing.T, width, height uint32) []byte {
	pixels := make([]byte, rleanim.PixelBufferSize(width, height))

	_, err := rand.Read(pixels)
	require.NoErrorf(
		t, err, "failed to fill %dx%d pixel buffer with random bytes", width, height)
	return pixels
}

// CreateSolidPixels creates a pixel buffer where every pixel has the same color.
func CreateSolidPixels(width, height uint32, color [rleanim.ChannelCount]byte) []byte {
	pixels := make([]byte, rleanim.PixelBufferSize(width, height))
	for i := 0; i < len(pixels); i += rleanim.BytesPerPixel {
		copy(pixels[i:i+rleanim.BytesPerPixel], color[:])
	}
	return pixels
}

// CreateBandPixels draws an opaque vertical band of the given color on a fully
// transparent background, roughly what one frame of a progress indicator looks
// like. Columns [bandStart, bandStart+bandWidth) are painted, wrapping around
// the right edge.
//
// Every pixel is either fully opaque or transparent black, so the buffer is
// reproduced exactly when saved as a PNG and loaded again.
func CreateBandPixels(
	width, height uint32, bandStart, bandWidth uint32, color [3]byte,
) []byte {
	pixels := make([]byte, rleanim.PixelBufferSize(width, height))
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			if (x+width-bandStart%width)%width >= bandWidth {
				continue
			}
			offset := int(y*width+x) * rleanim.BytesPerPixel
			pixels[offset+rleanim.ChannelRed] = color[0]
			pixels[offset+rleanim.ChannelGreen] = color[1]
			pixels[offset+rleanim.ChannelBlue] = color[2]
			pixels[offset+rleanim.ChannelAlpha] = 0xff
		}
	}
	return pixels
}

// CreateCheckerboardPixels creates a buffer where every pixel differs from both
// of its horizontal neighbors in every channel. This is the worst case for the
// run-length encoder.
func CreateCheckerboardPixels(width, height uint32) []byte {
	pixels := make([]byte, rleanim.PixelBufferSize(width, height))
	for i := 0; i < int(width*height); i++ {
		value := byte(0x11)
		if i%2 == 1 {
			value = 0xee
		}
		for channel := 0; channel < rleanim.ChannelCount; channel++ {
			pixels[i*rleanim.BytesPerPixel+channel] = value
		}
	}
	return pixels
}
