package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dargueta/rleanim"
	"github.com/dargueta/rleanim/container"
	"github.com/dargueta/rleanim/convert"
	"github.com/dargueta/rleanim/imagesource"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
)

func parseDimension(c *cli.Context, name, value string) (uint32, error) {
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil || parsed == 0 {
		return 0, usageError(c, "%s must be a positive integer, got %q", name, value)
	}
	return uint32(parsed), nil
}

func packImages(c *cli.Context) error {
	if c.Args().Len() < 4 {
		return usageError(c, "expected OUTPUT WIDTH HEIGHT and at least one IMAGE")
	}

	outputPath := c.Args().Get(0)
	width, err := parseDimension(c, "WIDTH", c.Args().Get(1))
	if err != nil {
		return err
	}
	height, err := parseDimension(c, "HEIGHT", c.Args().Get(2))
	if err != nil {
		return err
	}
	imagePaths := c.Args().Slice()[3:]

	frameRate := c.Uint("frame-rate")
	if frameRate == 0 || uint64(frameRate) > math.MaxUint32 {
		return usageError(
			c, "--frame-rate must be between 1 and %d, got %d", uint32(math.MaxUint32), frameRate)
	}

	options := convert.DefaultOptions(width, height)
	options.FrameRate = uint32(frameRate)
	options.Workers = c.Int("workers")
	options.Logger = slog.Default()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}

	buffered := bufio.NewWriter(outFile)
	stats, err := convert.Pack(
		c.Context, buffered, imagesource.PNGSource{}, imagePaths, options)
	if err == nil {
		err = buffered.Flush()
		if err != nil {
			err = rleanim.ErrIOFailed.Wrap(err)
		}
	}

	closeErr := outFile.Close()
	if err == nil && closeErr != nil {
		err = rleanim.ErrIOFailed.Wrap(closeErr)
	}
	if err != nil {
		// Don't leave a half-written container lying around.
		removeErr := os.Remove(outputPath)
		if removeErr != nil {
			return multierror.Append(err, removeErr)
		}
		return err
	}

	fmt.Printf(
		"Wrote %d frame(s) to %s: %d bytes of pixels compressed to %d (%.1f%%).\n",
		stats.Frames,
		outputPath,
		stats.PixelBytes,
		stats.CompressedBytes,
		100*stats.Ratio(),
	)
	return nil
}

func unpackContainer(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return usageError(c, "expected CONTAINER and OUTPUT_DIR")
	}
	containerPath := c.Args().Get(0)
	outputDir := c.Args().Get(1)

	err := os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}

	sourceFile, err := os.Open(containerPath)
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}
	defer sourceFile.Close()

	header, err := convert.Unpack(
		bufio.NewReader(sourceFile),
		func(index int, frameHeader container.FrameHeader, pixels []byte) error {
			path := filepath.Join(outputDir, fmt.Sprintf("frame-%04d.png", index))
			slog.Debug("writing frame", "index", index, "path", path)
			return imagesource.SavePNG(path, pixels, frameHeader.Width, frameHeader.Height)
		},
	)
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d frame(s) to %s.\n", header.FrameCount, outputDir)
	return nil
}

func showInfo(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return usageError(c, "expected CONTAINER")
	}

	sourceFile, err := os.Open(c.Args().First())
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}
	defer sourceFile.Close()

	header, summaries, err := convert.Inspect(bufio.NewReader(sourceFile))
	if err != nil {
		return err
	}

	if c.Bool("csv") {
		return convert.WriteFrameSummariesCSV(os.Stdout, summaries)
	}

	fmt.Printf(
		"version %d, %dx%d, %d fps, %d frame(s)\n",
		header.Version,
		header.Width,
		header.Height,
		header.FrameRate,
		header.FrameCount,
	)
	for _, summary := range summaries {
		fmt.Printf(
			"  #%-4d @%-8d %dx%d+%d+%d %s %d bytes (+%d pad) %.1f%%\n",
			summary.Index,
			summary.Offset,
			summary.Width,
			summary.Height,
			summary.XOffset,
			summary.YOffset,
			summary.Format,
			summary.DataLength,
			summary.Padding,
			100*summary.Ratio,
		)
	}
	return nil
}

func verifyContainer(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return usageError(c, "expected CONTAINER and at least one IMAGE")
	}

	sourceFile, err := os.Open(c.Args().First())
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}
	defer sourceFile.Close()

	report, err := convert.Verify(
		c.Context,
		bufio.NewReader(sourceFile),
		imagesource.PNGSource{},
		c.Args().Slice()[1:],
	)
	if err != nil {
		return err
	}

	for _, mismatch := range report.Mismatches {
		fmt.Printf(
			"frame %d (%s): %d pixel(s) differ\n", mismatch.Index, mismatch.Path, mismatch.Count)
	}
	if !report.OK() {
		return rleanim.ErrContentMismatch.WithMessage(
			fmt.Sprintf("%d of %d frame(s) differ", len(report.Mismatches), report.Frames))
	}

	fmt.Printf("All %d frame(s) match.\n", report.Frames)
	return nil
}
