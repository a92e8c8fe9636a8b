package convert

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/rleanim"
	"github.com/dargueta/rleanim/container"
)

// FrameMismatch describes a frame whose decoded pixels differ from its source
// image.
type FrameMismatch struct {
	Index int
	Path  string
	// Pixels has one bit per pixel, set if any channel of that pixel differs.
	Pixels bitmap.Bitmap
	// Count is the number of bits set in Pixels.
	Count int
}

// VerifyReport is the result of [Verify].
type VerifyReport struct {
	Frames     int
	Mismatches []FrameMismatch
}

// OK returns true if every frame matched its source.
func (r VerifyReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Verify decodes every frame of a container and compares it pixel for pixel
// with the corresponding image from source. It fails outright if the number of
// frames differs from len(paths) or if any image or frame can't be decoded;
// differing pixels are reported in the result, not as an error.
func Verify(
	ctx context.Context,
	input io.Reader,
	source rleanim.ImageSource,
	paths []string,
) (VerifyReport, error) {
	report := VerifyReport{}

	reader, err := container.NewReader(input)
	if err != nil {
		return report, err
	}
	header := reader.Header()
	if int(header.FrameCount) != len(paths) {
		return report, rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"container has %d frame(s) but %d image(s) were given",
				header.FrameCount,
				len(paths),
			),
		)
	}

	for index, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		frame, err := reader.NextFrame()
		if errors.Is(err, io.EOF) {
			return report, rleanim.ErrFormat.Wrap(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return report, err
		}

		decoded, err := frame.Pixels()
		if err != nil {
			return report, fmt.Errorf("frame %d: %w", index, err)
		}

		expected, err := source.LoadPixels(path, frame.Header.Width, frame.Header.Height)
		if err != nil {
			return report, err
		}

		mismatch := comparePixels(expected, decoded)
		report.Frames++
		if mismatch.Count > 0 {
			mismatch.Index = index
			mismatch.Path = path
			report.Mismatches = append(report.Mismatches, mismatch)
		}
	}
	return report, nil
}

func comparePixels(expected, actual []byte) FrameMismatch {
	pixelCount := len(expected) / rleanim.BytesPerPixel
	mismatch := FrameMismatch{Pixels: bitmap.New(pixelCount)}

	for i := 0; i < pixelCount; i++ {
		offset := i * rleanim.BytesPerPixel
		for channel := 0; channel < rleanim.ChannelCount; channel++ {
			if offset+channel >= len(actual) || expected[offset+channel] != actual[offset+channel] {
				mismatch.Pixels.Set(i, true)
				mismatch.Count++
				break
			}
		}
	}
	return mismatch
}
