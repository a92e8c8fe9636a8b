package compression

import (
	"fmt"

	"github.com/dargueta/rleanim"
)

// MaxCompressedSize returns the largest payload [CompressRGBA] can produce for
// a frame of pixelCount pixels. This happens when no two neighboring samples in
// any channel are equal, so every sample becomes a two-byte record.
func MaxCompressedSize(pixelCount int) int {
	return pixelCount * rleanim.BytesPerPixel * 2
}

// MinCompressedSize returns the smallest payload that can describe a frame of
// pixelCount pixels: every channel needs at least one record per
// [MaxRunLength] samples, and a record is never shorter than two bytes.
func MinCompressedSize(pixelCount int) int {
	if pixelCount <= 0 {
		return 0
	}
	recordsPerChannel := (pixelCount + MaxRunLength - 1) / MaxRunLength
	return rleanim.ChannelCount * recordsPerChannel * 2
}

func checkPixelBuffer(pixels []byte, pixelCount int) error {
	if pixelCount < 0 {
		return rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("negative pixel count %d", pixelCount))
	}
	if len(pixels) != pixelCount*rleanim.BytesPerPixel {
		return rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"pixel buffer is %d bytes, expected %d for %d pixels",
				len(pixels),
				pixelCount*rleanim.BytesPerPixel,
				pixelCount,
			),
		)
	}
	return nil
}

// CompressRGBA compresses an interleaved RGBA buffer of pixelCount pixels into
// dst, one channel after another, and returns the payload length.
//
// dst must hold at least [MaxCompressedSize] bytes; a smaller buffer is only
// safe if the caller knows the image compresses well. If dst turns out to be too
// small, an error matching [rleanim.ErrInvalidArgument] is returned and the
// contents of dst are undefined.
func CompressRGBA(dst, pixels []byte, pixelCount int) (int, error) {
	err := checkPixelBuffer(pixels, pixelCount)
	if err != nil {
		return 0, err
	}

	compressedLength := 0
	for channel := 0; channel < rleanim.ChannelCount; channel++ {
		view, err := NewChannelView(pixels, channel, pixelCount)
		if err != nil {
			return compressedLength, err
		}

		n, err := EncodeChannel(dst[compressedLength:], view)
		compressedLength += n
		if err != nil {
			return compressedLength, err
		}
	}
	return compressedLength, nil
}

// CompressRGBAToBytes is a convenience function wrapping [CompressRGBA]. It
// functions identically, except it returns the payload in a new byte slice.
func CompressRGBAToBytes(pixels []byte, pixelCount int) ([]byte, error) {
	err := checkPixelBuffer(pixels, pixelCount)
	if err != nil {
		return nil, err
	}

	buffer := make([]byte, MaxCompressedSize(pixelCount))
	n, err := CompressRGBA(buffer, pixels, pixelCount)
	if err != nil {
		return nil, err
	}
	return buffer[:n:n], nil
}

// DecompressRGBA reverses [CompressRGBA], writing pixelCount pixels into dst.
//
// The payload must contain exactly four channels' worth of records. Running out
// of data, a run crossing a channel boundary, or bytes left over after the
// alpha channel all fail with an error matching [rleanim.ErrFormat].
func DecompressRGBA(dst, payload []byte, pixelCount int) error {
	err := checkPixelBuffer(dst, pixelCount)
	if err != nil {
		return err
	}

	consumed := 0
	for channel := 0; channel < rleanim.ChannelCount; channel++ {
		view, err := NewChannelView(dst, channel, pixelCount)
		if err != nil {
			return err
		}

		n, err := DecodeChannel(view, payload[consumed:])
		if err != nil {
			return fmt.Errorf("channel %d: %w", channel, err)
		}
		consumed += n
	}

	if consumed != len(payload) {
		return rleanim.ErrFormat.WithMessage(
			fmt.Sprintf(
				"%d trailing byte(s) after the last channel", len(payload)-consumed),
		)
	}
	return nil
}

// DecompressRGBAToBytes is a convenience function wrapping [DecompressRGBA]
// that allocates the pixel buffer itself. A payload shorter than
// [MinCompressedSize] is rejected before anything is allocated.
func DecompressRGBAToBytes(payload []byte, pixelCount int) ([]byte, error) {
	if pixelCount < 0 {
		return nil, rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("negative pixel count %d", pixelCount))
	}
	if len(payload) < MinCompressedSize(pixelCount) {
		return nil, rleanim.ErrFormat.WithMessage(
			fmt.Sprintf(
				"%d byte(s) can't hold %d pixels, need at least %d",
				len(payload),
				pixelCount,
				MinCompressedSize(pixelCount),
			),
		)
	}

	pixels := make([]byte, pixelCount*rleanim.BytesPerPixel)
	err := DecompressRGBA(pixels, payload, pixelCount)
	if err != nil {
		return nil, err
	}
	return pixels, nil
}
