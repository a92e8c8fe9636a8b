package convert_test

import (
	"fmt"
	"time"

	"github.com/dargueta/rleanim"
	ttest "github.com/dargueta/rleanim/testing"
)

// memorySource is an [rleanim.ImageSource] that serves pixel buffers from a
// map instead of files.
type memorySource struct {
	width  uint32
	height uint32
	images map[string][]byte
}

func (s memorySource) LoadPixels(path string, width, height uint32) ([]byte, error) {
	pixels, ok := s.images[path]
	if !ok {
		return nil, rleanim.ErrDecodeFailed.WithMessage(path)
	}
	if width != s.width || height != s.height {
		return nil, rleanim.ErrDimensionMismatch.WithMessage(
			fmt.Sprintf("%s is %dx%d", path, s.width, s.height))
	}
	return pixels, nil
}

func newMemorySource(width, height uint32, frames [][]byte) (memorySource, []string) {
	source := memorySource{width: width, height: height, images: map[string][]byte{}}
	paths := make([]string, len(frames))
	for i, frame := range frames {
		paths[i] = fmt.Sprintf("frame-%d.png", i)
		source.images[paths[i]] = frame
	}
	return source, paths
}

func spinnerFrames(width, height uint32, count int) [][]byte {
	frames := make([][]byte, count)
	for i := range frames {
		frames[i] = ttest.CreateBandPixels(
			width, height, uint32(i)*width/uint32(count), width/4+1, [3]byte{0x30, 0x90, 0xf0})
	}
	return frames
}

// delayedSource wraps another source and waits before loading the paths given
// in delays.
type delayedSource struct {
	rleanim.ImageSource
	delays map[string]time.Duration
}

func (s delayedSource) LoadPixels(path string, width, height uint32) ([]byte, error) {
	time.Sleep(s.delays[path])
	return s.ImageSource.LoadPixels(path, width, height)
}
