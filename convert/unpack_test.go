package convert_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dargueta/rleanim"
	"github.com/dargueta/rleanim/container"
	"github.com/dargueta/rleanim/convert"
	ttest "github.com/dargueta/rleanim/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpack__RoundTrip(t *testing.T) {
	frames := spinnerFrames(13, 7, 5)
	data := ttest.BuildContainer(t, 13, 7, 12, frames...)

	var decoded [][]byte
	header, err := convert.Unpack(
		ttest.LoadContainer(t, data),
		func(index int, frameHeader container.FrameHeader, pixels []byte) error {
			assert.Equal(t, len(decoded), index, "frames delivered out of order")
			assert.EqualValues(t, 13, frameHeader.Width)
			decoded = append(decoded, pixels)
			return nil
		},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 5, header.FrameCount)
	assert.Equal(t, frames, decoded)
}

func TestUnpack__OversizedFrameHeader(t *testing.T) {
	globalData, err := container.NewGlobalHeader(2, 2, 12, 1).MarshalBinary()
	require.NoError(t, err)
	frameData, err := container.NewFrameHeader(60000, 60000, 0).MarshalBinary()
	require.NoError(t, err)

	called := false
	_, err = convert.Unpack(
		bytes.NewReader(append(globalData, frameData...)),
		func(int, container.FrameHeader, []byte) error {
			called = true
			return nil
		},
	)
	assert.ErrorIs(t, err, rleanim.ErrFormat)
	assert.False(t, called, "handler got a frame from a malformed container")
}

func TestUnpack__HandlerErrorStops(t *testing.T) {
	data := ttest.BuildContainer(t, 4, 4, 12, spinnerFrames(4, 4, 3)...)
	stop := errors.New("stop")

	calls := 0
	_, err := convert.Unpack(
		bytes.NewReader(data),
		func(int, container.FrameHeader, []byte) error {
			calls++
			return stop
		},
	)
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestUnpack__CorruptPayload(t *testing.T) {
	data := ttest.BuildContainer(t, 4, 4, 12, spinnerFrames(4, 4, 1)...)
	// First payload byte is the length of the first red run; make it overshoot.
	data[container.GlobalHeaderSize+container.FrameHeaderSize] = 0x7f

	_, err := convert.Unpack(
		bytes.NewReader(data),
		func(int, container.FrameHeader, []byte) error { return nil },
	)
	assert.ErrorIs(t, err, rleanim.ErrFormat)
}

func TestInspect(t *testing.T) {
	frames := spinnerFrames(10, 10, 3)
	data := ttest.BuildContainer(t, 10, 10, 12, frames...)

	header, summaries, err := convert.Inspect(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, container.NewGlobalHeader(10, 10, 12, 3), header)
	require.Len(t, summaries, 3)

	offset := int64(container.GlobalHeaderSize)
	for i, summary := range summaries {
		assert.Equal(t, i, summary.Index)
		assert.Equal(t, offset, summary.Offset, "frame %d offset", i)
		assert.Equal(t, "rle-rgba", summary.Format)
		assert.Zero(t, (int(summary.DataLength)+summary.Padding)%4)
		assert.Greater(t, summary.Ratio, 0.0)
		offset += container.FrameHeaderSize + int64(summary.DataLength) + int64(summary.Padding)
	}
	assert.EqualValues(t, len(data), offset)

	csvOutput := bytes.Buffer{}
	require.NoError(t, convert.WriteFrameSummariesCSV(&csvOutput, summaries))
	lines := strings.Split(strings.TrimSpace(csvOutput.String()), "\n")
	require.Len(t, lines, 4, "expected a header row and one row per frame")
	assert.Equal(
		t,
		"index,offset,width,height,x_offset,y_offset,format,data_length,padding,ratio",
		lines[0],
	)
	assert.True(t, strings.HasPrefix(lines[1], "0,24,10,10,0,0,rle-rgba,"), lines[1])
}

func TestVerify(t *testing.T) {
	frames := spinnerFrames(12, 12, 4)
	data := ttest.BuildContainer(t, 12, 12, 12, frames...)
	source, paths := newMemorySource(12, 12, frames)

	report, err := convert.Verify(context.Background(), bytes.NewReader(data), source, paths)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 4, report.Frames)
}

func TestVerify__DetectsDifferences(t *testing.T) {
	frames := spinnerFrames(12, 12, 2)
	data := ttest.BuildContainer(t, 12, 12, 12, frames...)

	altered := make([]byte, len(frames[1]))
	copy(altered, frames[1])
	altered[5*4+rleanim.ChannelGreen] ^= 0xff
	altered[77*4+rleanim.ChannelAlpha] ^= 0x01
	source, paths := newMemorySource(12, 12, [][]byte{frames[0], altered})

	report, err := convert.Verify(context.Background(), bytes.NewReader(data), source, paths)
	require.NoError(t, err)
	require.False(t, report.OK())
	require.Len(t, report.Mismatches, 1)

	mismatch := report.Mismatches[0]
	assert.Equal(t, 1, mismatch.Index)
	assert.Equal(t, paths[1], mismatch.Path)
	assert.Equal(t, 2, mismatch.Count)
	assert.True(t, mismatch.Pixels.Get(5))
	assert.True(t, mismatch.Pixels.Get(77))
	assert.False(t, mismatch.Pixels.Get(6))
}

func TestVerify__FrameCountMismatch(t *testing.T) {
	frames := spinnerFrames(4, 4, 2)
	data := ttest.BuildContainer(t, 4, 4, 12, frames...)
	source, paths := newMemorySource(4, 4, frames[:1])

	_, err := convert.Verify(context.Background(), bytes.NewReader(data), source, paths)
	assert.ErrorIs(t, err, rleanim.ErrInvalidArgument)
}
