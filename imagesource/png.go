// Package imagesource turns image files into the raw RGBA pixel buffers the
// compressor works on, and back.
//
// Pixels are premultiplied by alpha, the same as [image.RGBA]. Images that are
// only opaque or fully transparent black survive a save and load unchanged;
// partially transparent pixels may lose precision in the round trip because
// PNG stores unpremultiplied color.
package imagesource

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/dargueta/rleanim"
)

// PNGSource is an [rleanim.ImageSource] that reads PNG files from disk.
type PNGSource struct{}

var _ rleanim.ImageSource = PNGSource{}

// LoadPixels reads the PNG file at path and returns its pixels.
func (PNGSource) LoadPixels(path string, width, height uint32) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, rleanim.ErrDecodeFailed.Wrap(err)
	}
	defer file.Close()

	pixels, err := DecodePixels(file, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pixels, nil
}

// DecodePixels decodes a PNG image from input and converts it to a tightly
// packed RGBA buffer. The image must be exactly width by height pixels.
func DecodePixels(input io.Reader, width, height uint32) ([]byte, error) {
	img, err := png.Decode(input)
	if err != nil {
		return nil, rleanim.ErrDecodeFailed.Wrap(err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != int(width) || bounds.Dy() != int(height) {
		return nil, rleanim.ErrDimensionMismatch.WithMessage(
			fmt.Sprintf(
				"image is %dx%d, expected %dx%d",
				bounds.Dx(),
				bounds.Dy(),
				width,
				height,
			),
		)
	}

	// NewRGBA with a zero origin gives a buffer with Stride == 4 * width, which
	// is exactly the layout the compressor expects.
	canvas := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)
	return canvas.Pix, nil
}

// EncodePNG writes a pixel buffer as a PNG image.
func EncodePNG(output io.Writer, pixels []byte, width, height uint32) error {
	if len(pixels) != rleanim.PixelBufferSize(width, height) {
		return rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"%d bytes is the wrong size for a %dx%d image", len(pixels), width, height),
		)
	}

	img := &image.RGBA{
		Pix:    pixels,
		Stride: int(width) * rleanim.BytesPerPixel,
		Rect:   image.Rect(0, 0, int(width), int(height)),
	}
	err := png.Encode(output, img)
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}
	return nil
}

// SavePNG writes a pixel buffer to a new PNG file at path.
func SavePNG(path string, pixels []byte, width, height uint32) error {
	file, err := os.Create(path)
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}

	err = EncodePNG(file, pixels, width, height)
	closeErr := file.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return rleanim.ErrIOFailed.Wrap(closeErr)
	}
	return nil
}
