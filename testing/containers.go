package testing

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/dargueta/rleanim/container"
	"github.com/dargueta/rleanim/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// ErrSinkFull is returned by [LimitedSink] once its limit is reached.
var ErrSinkFull = errors.New("sink full")

// LimitedSink is an [io.Writer] that accepts Limit bytes and then fails every
// write with [ErrSinkFull]. A write straddling the limit is partially accepted.
type LimitedSink struct {
	Data  bytes.Buffer
	Limit int
}

func (s *LimitedSink) Write(p []byte) (int, error) {
	room := s.Limit - s.Data.Len()
	if room >= len(p) {
		return s.Data.Write(p)
	}
	if room > 0 {
		s.Data.Write(p[:room])
	} else {
		room = 0
	}
	return room, ErrSinkFull
}

// BuildContainer compresses each of the pixel buffers and writes them to an
// in-memory container. It is guaranteed to either return the container's bytes
// or fail the test and abort.
func BuildContainer(
	t *testing.T, width, height, frameRate uint32, frames ...[]byte,
) []byte {
	output := bytes.Buffer{}
	writer := container.NewWriter(&output)

	err := writer.WriteGlobalHeader(
		container.NewGlobalHeader(width, height, frameRate, uint32(len(frames))))
	require.NoError(t, err, "failed to write global header")

	for i, pixels := range frames {
		payload, err := compression.CompressRGBAToBytes(pixels, int(width*height))
		require.NoErrorf(t, err, "failed to compress frame %d", i)

		header := container.NewFrameHeader(width, height, uint32(len(payload)))
		err = writer.WriteFrame(header, payload)
		require.NoErrorf(t, err, "failed to write frame %d", i)
	}

	require.NoError(t, writer.Close(), "failed to close container")
	return output.Bytes()
}

// LoadContainer returns a stream over a copy of a container's bytes.
//
//   - Writes to the stream do not affect `containerBytes`.
//   - While the stream can be written to, its size is fixed to the length of
//     `containerBytes`. Attempting to write past the end of this buffer will
//     trigger an error.
func LoadContainer(t *testing.T, containerBytes []byte) io.ReadWriteSeeker {
	require.GreaterOrEqual(
		t,
		len(containerBytes),
		container.GlobalHeaderSize,
		"container is too small to hold a header",
	)

	copied := make([]byte, len(containerBytes))
	copy(copied, containerBytes)
	return bytesextra.NewReadWriteSeeker(copied)
}
