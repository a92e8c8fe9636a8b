// Package convert ties the image source, compressor, and container together.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/dargueta/rleanim"
	"github.com/dargueta/rleanim/container"
	"github.com/dargueta/rleanim/utilities/compression"
	"golang.org/x/sync/errgroup"
)

// Options controls how [Pack] builds a container.
type Options struct {
	Width     uint32
	Height    uint32
	FrameRate uint32
	// Workers is the number of frames compressed at the same time. Values
	// below 2 compress one frame at a time.
	Workers int
	// Logger receives progress messages. If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultOptions returns options for an animation of the given size using the
// default frame rate and one worker per CPU.
func DefaultOptions(width, height uint32) Options {
	return Options{
		Width:     width,
		Height:    height,
		FrameRate: container.DefaultFrameRate,
		Workers:   runtime.NumCPU(),
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Stats summarizes a completed [Pack].
type Stats struct {
	Frames          int
	PixelBytes      int64
	CompressedBytes int64
	ContainerBytes  int64
}

// Ratio gives the compressed payload size as a fraction of the raw pixel size.
func (s Stats) Ratio() float64 {
	if s.PixelBytes == 0 {
		return 0
	}
	return float64(s.CompressedBytes) / float64(s.PixelBytes)
}

type compressedFrame struct {
	header  container.FrameHeader
	payload []byte
}

// Pack loads each image in paths from source, compresses it, and writes the
// result to sink as a container with one frame per path, in the same order.
//
// Frames are compressed in batches of up to options.Workers at a time, but are
// always written by the calling goroutine in input order. The first error from
// any stage aborts the whole conversion. Among images compressed together, the
// error for the earliest one is returned regardless of options.Workers.
// Whatever was already written to sink is not a valid container.
func Pack(
	ctx context.Context,
	sink io.Writer,
	source rleanim.ImageSource,
	paths []string,
	options Options,
) (Stats, error) {
	log := options.logger()
	stats := Stats{}

	if options.FrameRate == 0 {
		options.FrameRate = container.DefaultFrameRate
	}
	batchSize := options.Workers
	if batchSize < 1 {
		batchSize = 1
	}

	writer := container.NewWriter(sink)
	err := writer.WriteGlobalHeader(
		container.NewGlobalHeader(
			options.Width, options.Height, options.FrameRate, uint32(len(paths))),
	)
	if err != nil {
		return stats, err
	}

	for batchStart := 0; batchStart < len(paths); batchStart += batchSize {
		batchEnd := min(batchStart+batchSize, len(paths))

		frames, err := compressBatch(ctx, source, paths[batchStart:batchEnd], options)
		if err != nil {
			return stats, err
		}

		for i, frame := range frames {
			err = writer.WriteFrame(frame.header, frame.payload)
			if err != nil {
				return stats, fmt.Errorf("writing frame %d: %w", batchStart+i, err)
			}
			stats.Frames++
			stats.PixelBytes += int64(rleanim.PixelBufferSize(options.Width, options.Height))
			stats.CompressedBytes += int64(len(frame.payload))
			log.Debug(
				"wrote frame",
				"index", batchStart+i,
				"path", paths[batchStart+i],
				"bytes", len(frame.payload),
			)
		}
	}

	err = writer.Close()
	stats.ContainerBytes = writer.BytesWritten()
	if err != nil {
		return stats, err
	}

	log.Info(
		"container written",
		"frames", stats.Frames,
		"bytes", stats.ContainerBytes,
		"ratio", fmt.Sprintf("%.3f", stats.Ratio()),
	)
	return stats, nil
}

// compressBatch loads and compresses a set of images concurrently. The result
// has one entry per path, in the same order.
//
// Every image in the batch is attempted even if another one fails, and the
// error returned is that of the earliest failing path, the same one a
// sequential run would report.
func compressBatch(
	ctx context.Context,
	source rleanim.ImageSource,
	paths []string,
	options Options,
) ([]compressedFrame, error) {
	frames := make([]compressedFrame, len(paths))
	errs := make([]error, len(paths))
	group := errgroup.Group{}

	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			frames[i], errs[i] = compressImage(source, path, options)
			return errs[i]
		})
	}

	// Wait reports whichever goroutine failed first, which depends on
	// scheduling. Use the per-path errors instead.
	_ = group.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	// Cancellation of the parent context isn't seen by goroutines that had
	// already finished.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

func compressImage(
	source rleanim.ImageSource, path string, options Options,
) (compressedFrame, error) {
	pixels, err := source.LoadPixels(path, options.Width, options.Height)
	if err != nil {
		return compressedFrame{}, err
	}

	pixelCount := int(options.Width) * int(options.Height)
	if len(pixels) != pixelCount*rleanim.BytesPerPixel {
		return compressedFrame{}, rleanim.ErrDimensionMismatch.WithMessage(
			fmt.Sprintf(
				"%s: image source returned %d bytes, expected %d",
				path,
				len(pixels),
				pixelCount*rleanim.BytesPerPixel,
			),
		)
	}

	options.logger().Debug("compressing frame", "path", path, "pixels", pixelCount)
	payload, err := compression.CompressRGBAToBytes(pixels, pixelCount)
	if err != nil {
		return compressedFrame{}, fmt.Errorf("%s: %w", path, err)
	}

	return compressedFrame{
		header:  container.NewFrameHeader(options.Width, options.Height, uint32(len(payload))),
		payload: payload,
	}, nil
}
