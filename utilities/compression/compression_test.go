package compression_test

import (
	"testing"

	"github.com/dargueta/rleanim"
	ttest "github.com/dargueta/rleanim/testing"
	c "github.com/dargueta/rleanim/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameC9nTestData struct {
	Name   string
	Width  uint32
	Height uint32
	Pixels []byte
}

func frameTestData(t *testing.T) []frameC9nTestData {
	return []frameC9nTestData{
		{"empty", 0, 0, []byte{}},
		{"one pixel", 1, 1, []byte{1, 2, 3, 4}},
		{"homogenous", 64, 48, ttest.CreateSolidPixels(64, 48, [4]byte{100, 0, 0, 255})},
		{"heterogenous", 17, 7, ttest.CreateRandomPixels(t, 17, 7)},
		{"band", 32, 32, ttest.CreateBandPixels(32, 32, 28, 8, [3]byte{200, 40, 40})},
		{"worst case", 9, 5, ttest.CreateCheckerboardPixels(9, 5)},
		// More than 32767 pixels so that every channel needs a split run.
		{"long runs", 200, 200, ttest.CreateSolidPixels(200, 200, [4]byte{0, 0, 0, 0})},
	}
}

func TestCompressRGBA__TwoPixels(t *testing.T) {
	pixels := []byte{10, 20, 30, 40, 10, 20, 30, 41}
	output := make([]byte, c.MaxCompressedSize(2))

	n, err := c.CompressRGBA(output, pixels, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, n, "payload length is wrong")
	assert.Equal(
		t,
		[]byte{2, 10, 2, 20, 2, 30, 1, 40, 1, 41},
		output[:n],
		"payload is wrong",
	)
}

func TestCompressRGBA__LengthIsSumOfRecords(t *testing.T) {
	for _, data := range frameTestData(t) {
		t.Run(data.Name, func(t *testing.T) {
			pixelCount := int(data.Width * data.Height)
			payload, err := c.CompressRGBAToBytes(data.Pixels, pixelCount)
			require.NoError(t, err)

			// Walk the records and make sure their sizes add up to the payload
			// length reported by the compressor.
			total := 0
			for total < len(payload) {
				_, n, err := c.ReadRun(payload[total:])
				require.NoErrorf(t, err, "bad record at offset %d", total)
				total += n
			}
			assert.Equal(t, len(payload), total)
			assert.LessOrEqual(t, len(payload), c.MaxCompressedSize(pixelCount))
		})
	}
}

func TestCompressRGBA__WorstCaseHitsBound(t *testing.T) {
	pixels := ttest.CreateCheckerboardPixels(16, 16)
	payload, err := c.CompressRGBAToBytes(pixels, 256)
	require.NoError(t, err)
	assert.Equal(t, c.MaxCompressedSize(256), len(payload))
}

func TestCompressRGBA__SolidFrameIsTiny(t *testing.T) {
	pixels := ttest.CreateSolidPixels(200, 200, [4]byte{1, 2, 3, 4})
	payload, err := c.CompressRGBAToBytes(pixels, 40000)
	require.NoError(t, err)

	// Each channel is a 32767 run plus a 7233 run, 3 bytes each.
	assert.Equal(t, 4*6, len(payload))
}

func TestCompressRGBA__BadBufferSize(t *testing.T) {
	_, err := c.CompressRGBA(make([]byte, 64), make([]byte, 15), 4)
	assert.ErrorIs(t, err, rleanim.ErrInvalidArgument)

	_, err = c.CompressRGBAToBytes(make([]byte, 16), -4)
	assert.ErrorIs(t, err, rleanim.ErrInvalidArgument)
}

func TestCompressRGBA__OutputTooSmall(t *testing.T) {
	pixels := ttest.CreateCheckerboardPixels(4, 4)
	_, err := c.CompressRGBA(make([]byte, c.MaxCompressedSize(16)-1), pixels, 16)
	assert.ErrorIs(t, err, rleanim.ErrInvalidArgument)
}

func TestRoundTripFrameCompression(t *testing.T) {
	for _, data := range frameTestData(t) {
		t.Run(data.Name, func(t *testing.T) {
			pixelCount := int(data.Width * data.Height)

			payload, err := c.CompressRGBAToBytes(data.Pixels, pixelCount)
			require.NoError(t, err, "unexpected error while compressing")
			t.Logf("frame size after compression: %d -> %d", len(data.Pixels), len(payload))

			decompressed, err := c.DecompressRGBAToBytes(payload, pixelCount)
			require.NoError(t, err, "unexpected error while decompressing")
			assert.Equal(t, data.Pixels, decompressed, "decompressed data is wrong")
		})
	}
}

func TestDecompressRGBA__Truncated(t *testing.T) {
	for _, data := range frameTestData(t) {
		if len(data.Pixels) == 0 {
			continue
		}
		t.Run(data.Name, func(t *testing.T) {
			pixelCount := int(data.Width * data.Height)
			payload, err := c.CompressRGBAToBytes(data.Pixels, pixelCount)
			require.NoError(t, err)

			_, err = c.DecompressRGBAToBytes(payload[:len(payload)-1], pixelCount)
			assert.ErrorIs(t, err, rleanim.ErrFormat)
		})
	}
}

func TestDecompressRGBA__TrailingData(t *testing.T) {
	payload := []byte{2, 10, 2, 20, 2, 30, 1, 40, 1, 41, 0}
	_, err := c.DecompressRGBAToBytes(payload, 2)
	assert.ErrorIs(t, err, rleanim.ErrFormat)
}

func TestDecompressRGBA__RunCrossesChannelBoundary(t *testing.T) {
	// Red claims 3 samples but the frame only has 2 pixels.
	payload := []byte{3, 10, 2, 20, 2, 30, 2, 40}
	_, err := c.DecompressRGBAToBytes(payload, 2)
	assert.ErrorIs(t, err, rleanim.ErrFormat)
}

func TestDecompressRGBA__ChannelsAreIndependent(t *testing.T) {
	payload := []byte{2, 10, 2, 20, 2, 30, 1, 40, 1, 41}
	pixels, err := c.DecompressRGBAToBytes(payload, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 40, 10, 20, 30, 41}, pixels)
}

func TestMinCompressedSize(t *testing.T) {
	assert.Equal(t, 0, c.MinCompressedSize(0))
	assert.Equal(t, 8, c.MinCompressedSize(1))
	assert.Equal(t, 8, c.MinCompressedSize(c.MaxRunLength))
	assert.Equal(t, 16, c.MinCompressedSize(c.MaxRunLength+1))

	// A solid frame is the best case and must never beat the bound.
	for _, pixelCount := range []int{1, 127, 128, c.MaxRunLength, c.MaxRunLength + 1, 70000} {
		pixels := ttest.CreateSolidPixels(uint32(pixelCount), 1, [4]byte{1, 2, 3, 4})
		payload, err := c.CompressRGBAToBytes(pixels, pixelCount)
		require.NoError(t, err)
		assert.GreaterOrEqualf(
			t, len(payload), c.MinCompressedSize(pixelCount), "%d pixels", pixelCount)
	}
}

func TestDecompressRGBA__PayloadTooShortForPixelCount(t *testing.T) {
	// Checked before the 14 GB pixel buffer would be allocated.
	_, err := c.DecompressRGBAToBytes(nil, 60000*60000)
	assert.ErrorIs(t, err, rleanim.ErrFormat)

	_, err = c.DecompressRGBAToBytes([]byte{2, 10, 2, 20, 2, 30}, 2)
	assert.ErrorIs(t, err, rleanim.ErrFormat)
}
