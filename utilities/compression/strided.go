package compression

import (
	"fmt"

	"github.com/dargueta/rleanim"
)

// StridedView is a window over a byte slice that visits count bytes, starting
// at offset and advancing stride bytes each time. A view over one channel of
// an RGBA buffer starts at the channel index and has a stride of 4.
//
// Views can only be made by [NewStridedView] and [NewChannelView], so every
// index below [StridedView.Len] is inside the buffer. The zero value is an
// empty view.
type StridedView struct {
	buffer []byte
	offset int
	stride int
	count  int
}

// NewStridedView creates a view and verifies that every position it can visit
// lies within the buffer.
func NewStridedView(buffer []byte, offset, stride, count int) (StridedView, error) {
	if offset < 0 || stride < 1 || count < 0 {
		return StridedView{}, rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"bad strided view: offset=%d stride=%d count=%d", offset, stride, count),
		)
	}
	if count > 0 && offset+(count-1)*stride >= len(buffer) {
		return StridedView{}, rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"view of %d samples at offset %d, stride %d doesn't fit in %d bytes",
				count,
				offset,
				stride,
				len(buffer),
			),
		)
	}
	return StridedView{buffer: buffer, offset: offset, stride: stride, count: count}, nil
}

// NewChannelView returns a view over a single channel of an interleaved pixel
// buffer holding pixelCount pixels.
func NewChannelView(pixels []byte, channel, pixelCount int) (StridedView, error) {
	if channel < 0 || channel >= rleanim.ChannelCount {
		return StridedView{}, rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("channel %d out of range [0, %d)", channel, rleanim.ChannelCount))
	}
	return NewStridedView(pixels, channel, rleanim.BytesPerPixel, pixelCount)
}

// Len returns the number of samples in the view.
func (v StridedView) Len() int {
	return v.count
}

// At returns the i'th sample of the view.
func (v StridedView) At(i int) byte {
	return v.buffer[v.offset+i*v.stride]
}

// Set overwrites the i'th sample of the view.
func (v StridedView) Set(i int, value byte) {
	v.buffer[v.offset+i*v.stride] = value
}

// Fill writes value into n consecutive samples beginning at start.
func (v StridedView) Fill(start, n int, value byte) {
	p := v.offset + start*v.stride
	for i := 0; i < n; i++ {
		v.buffer[p] = value
		p += v.stride
	}
}
