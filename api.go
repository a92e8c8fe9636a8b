package rleanim

// ChannelCount is the number of interleaved 8-bit channels in every pixel.
const ChannelCount = 4

// BytesPerPixel is the stride between two samples of the same channel in a
// pixel buffer.
const BytesPerPixel = ChannelCount

// Channel offsets within a pixel. Compressed payloads store the channels in
// this order.
const (
	ChannelRed = iota
	ChannelGreen
	ChannelBlue
	ChannelAlpha
)

// ImageSource is the interface for anything that can turn a path into a raw
// pixel buffer.
//
// LoadPixels must return exactly width * height * [BytesPerPixel] bytes,
// row-major, with the channels interleaved in R, G, B, A order. Implementations
// must fail with an error matching [ErrDimensionMismatch] if the image isn't
// exactly width by height, and with [ErrDecodeFailed] if it can't be read.
type ImageSource interface {
	LoadPixels(path string, width, height uint32) ([]byte, error)
}

// PixelBufferSize returns the size of a pixel buffer for an image of the given
// dimensions.
func PixelBufferSize(width, height uint32) int {
	return int(width) * int(height) * BytesPerPixel
}
