package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/dargueta/rleanim"
	"github.com/urfave/cli/v2"
)

// Exit codes. Dimension and content mismatches get their own codes so scripts
// can tell a bad input set apart from an I/O problem or a corrupt file.
const (
	exitDimensionMismatch = 1
	exitFailure           = 2
	exitContentMismatch   = 3
)

func exitCode(err error) int {
	switch {
	case errors.Is(err, rleanim.ErrDimensionMismatch):
		return exitDimensionMismatch
	case errors.Is(err, rleanim.ErrContentMismatch):
		return exitContentMismatch
	default:
		return exitFailure
	}
}

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		log.Printf("fatal error: %s", err.Error())
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rleanim",
		Usage: "Build and inspect run-length encoded animation containers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every frame",
				EnvVars: []string{"RLEANIM_VERBOSE"},
			},
		},
		Before: func(context *cli.Context) error {
			level := slog.LevelInfo
			if context.Bool("verbose") {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "pack",
				Usage:     "Compress a sequence of PNG images into a container",
				ArgsUsage: "OUTPUT WIDTH HEIGHT IMAGE...",
				Action:    packImages,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:    "frame-rate",
						Aliases: []string{"r"},
						Value:   12,
						Usage:   "playback rate stored in the container, in frames per second",
						EnvVars: []string{"RLEANIM_FRAME_RATE"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"j"},
						Value:   runtime.NumCPU(),
						Usage:   "number of frames to compress in parallel",
						EnvVars: []string{"RLEANIM_WORKERS"},
					},
				},
			},
			{
				Name:      "unpack",
				Usage:     "Decode every frame of a container into PNG files",
				ArgsUsage: "CONTAINER OUTPUT_DIR",
				Action:    unpackContainer,
			},
			{
				Name:      "info",
				Usage:     "Show the headers of a container",
				ArgsUsage: "CONTAINER",
				Action:    showInfo,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "print the frame table as CSV",
					},
				},
			},
			{
				Name:      "verify",
				Usage:     "Check that a container decodes to the given images",
				ArgsUsage: "CONTAINER IMAGE...",
				Action:    verifyContainer,
			},
		},
	}
}

func usageError(context *cli.Context, format string, args ...any) error {
	return rleanim.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("%s: %s", context.Command.Name, fmt.Sprintf(format, args...)))
}
