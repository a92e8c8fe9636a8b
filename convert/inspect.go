package convert

import (
	"errors"
	"io"

	"github.com/dargueta/rleanim"
	"github.com/dargueta/rleanim/container"
	"github.com/gocarina/gocsv"
)

// FrameSummary describes one frame of a container without decoding it.
type FrameSummary struct {
	Index      int     `csv:"index"`
	Offset     int64   `csv:"offset"`
	Width      uint32  `csv:"width"`
	Height     uint32  `csv:"height"`
	XOffset    uint32  `csv:"x_offset"`
	YOffset    uint32  `csv:"y_offset"`
	Format     string  `csv:"format"`
	DataLength uint32  `csv:"data_length"`
	Padding    int     `csv:"padding"`
	Ratio      float64 `csv:"ratio"`
}

// Inspect reads a container's headers and returns the global header and one
// summary per frame. Payloads are skipped over, not decoded.
func Inspect(source io.Reader) (container.GlobalHeader, []FrameSummary, error) {
	reader, err := container.NewReader(source)
	if err != nil {
		return container.GlobalHeader{}, nil, err
	}

	summaries := make([]FrameSummary, 0, reader.Header().FrameCount)
	for {
		offset := reader.Offset()
		frame, err := reader.NextFrame()
		if errors.Is(err, io.EOF) {
			return reader.Header(), summaries, nil
		}
		if err != nil {
			return reader.Header(), summaries, err
		}

		summary := FrameSummary{
			Index:      len(summaries),
			Offset:     offset,
			Width:      frame.Header.Width,
			Height:     frame.Header.Height,
			XOffset:    frame.Header.XOffset,
			YOffset:    frame.Header.YOffset,
			Format:     frame.Header.Format.String(),
			DataLength: frame.Header.DataLength,
			Padding:    frame.Header.PaddingSize(),
		}
		rawSize := rleanim.PixelBufferSize(frame.Header.Width, frame.Header.Height)
		if rawSize > 0 {
			summary.Ratio = float64(frame.Header.DataLength) / float64(rawSize)
		}
		summaries = append(summaries, summary)
	}
}

// WriteFrameSummariesCSV writes summaries as CSV with a header row.
func WriteFrameSummariesCSV(output io.Writer, summaries []FrameSummary) error {
	err := gocsv.Marshal(summaries, output)
	if err != nil {
		return rleanim.ErrIOFailed.Wrap(err)
	}
	return nil
}
