package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/rleanim"
	"github.com/dargueta/rleanim/utilities/compression"
)

// maxBytesPerSample bounds the payload size a reader will accept. The encoder
// never needs more than 2 bytes per sample, but a three-byte record for every
// sample is still decodable.
const maxBytesPerSample = 3

// Frame is a single frame read from a container.
type Frame struct {
	Header  FrameHeader
	Payload []byte
}

// Pixels decodes the frame's payload into an RGBA buffer of
// Header.Width * Header.Height pixels.
func (f Frame) Pixels() ([]byte, error) {
	if f.Header.Format != ImageFormatRunLengthCompressedPixels {
		return nil, rleanim.ErrNotSupported.WithMessage(
			fmt.Sprintf("frame format %s", f.Header.Format))
	}
	return compression.DecompressRGBAToBytes(f.Payload, f.Header.PixelCount())
}

// Reader parses a container sequentially.
type Reader struct {
	source     io.Reader
	header     GlobalHeader
	framesRead uint32
	offset     int64
}

// NewReader reads and validates the global header from source. If an error
// occurs, it returns nil and an error; the position of source is undefined.
func NewReader(source io.Reader) (*Reader, error) {
	reader := &Reader{source: source}

	var raw [GlobalHeaderSize]byte
	err := reader.readFull(raw[:], "global header")
	if err != nil {
		return nil, err
	}

	err = reader.header.UnmarshalBinary(raw[:])
	if err != nil {
		return nil, err
	}

	err = reader.header.Validate()
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// Header returns the container's global header.
func (r *Reader) Header() GlobalHeader {
	return r.header
}

// FramesRead returns how many frames [Reader.NextFrame] has returned.
func (r *Reader) FramesRead() uint32 {
	return r.framesRead
}

// Offset returns the position in the file of the next unread byte.
func (r *Reader) Offset() int64 {
	return r.offset
}

// NextFrame reads the next frame header and payload, and skips the padding
// after it. It returns [io.EOF] once the number of frames given in the global
// header have been read. Data after the last frame is ignored.
//
// A frame must lie within the animation's bounds, and its data length must be
// one a payload for that many pixels could have. Anything else is rejected with
// an error matching [rleanim.ErrFormat] before the payload is read.
func (r *Reader) NextFrame() (Frame, error) {
	if r.framesRead >= r.header.FrameCount {
		return Frame{}, io.EOF
	}

	var raw [FrameHeaderSize]byte
	err := r.readFull(raw[:], fmt.Sprintf("frame %d header", r.framesRead))
	if err != nil {
		return Frame{}, err
	}

	var header FrameHeader
	err = header.UnmarshalBinary(raw[:])
	if err != nil {
		return Frame{}, err
	}

	err = r.checkFrameHeader(header)
	if err != nil {
		return Frame{}, err
	}

	payload, err := r.readPayload(
		int64(header.DataLength), fmt.Sprintf("frame %d payload", r.framesRead))
	if err != nil {
		return Frame{}, err
	}

	var padding [4]byte
	err = r.readFull(
		padding[:header.PaddingSize()], fmt.Sprintf("frame %d padding", r.framesRead))
	if err != nil {
		return Frame{}, err
	}

	r.framesRead++
	return Frame{Header: header, Payload: payload}, nil
}

// checkFrameHeader rejects frames that don't fit inside the animation, and
// data lengths no payload for a frame of that size could have.
func (r *Reader) checkFrameHeader(header FrameHeader) error {
	if uint64(header.XOffset)+uint64(header.Width) > uint64(r.header.Width) ||
		uint64(header.YOffset)+uint64(header.Height) > uint64(r.header.Height) {
		return rleanim.ErrFormat.WithMessage(
			fmt.Sprintf(
				"frame %d is %dx%d at (%d, %d), outside the %dx%d animation",
				r.framesRead,
				header.Width,
				header.Height,
				header.XOffset,
				header.YOffset,
				r.header.Width,
				r.header.Height,
			),
		)
	}

	pixelCount := header.PixelCount()
	minLength := int64(compression.MinCompressedSize(pixelCount))
	maxLength := int64(pixelCount) * rleanim.BytesPerPixel * maxBytesPerSample
	if int64(header.DataLength) < minLength || int64(header.DataLength) > maxLength {
		return rleanim.ErrFormat.WithMessage(
			fmt.Sprintf(
				"frame %d claims %d bytes of data, a %dx%d frame needs %d to %d",
				r.framesRead,
				header.DataLength,
				header.Width,
				header.Height,
				minLength,
				maxLength,
			),
		)
	}
	return nil
}

// readPayload reads exactly length bytes. The buffer grows as data arrives, so
// a bogus length in a truncated file doesn't allocate more than the file holds.
func (r *Reader) readPayload(length int64, what string) ([]byte, error) {
	var payload bytes.Buffer
	n, err := io.CopyN(&payload, r.source, length)
	r.offset += n
	if err == nil {
		return payload.Bytes(), nil
	}

	if errors.Is(err, io.EOF) {
		return nil, rleanim.ErrFormat.Wrap(io.ErrUnexpectedEOF).WithMessage(
			fmt.Sprintf("%s truncated at offset %d", what, r.offset))
	}
	return nil, rleanim.ErrIOFailed.Wrap(err)
}

func (r *Reader) readFull(buffer []byte, what string) error {
	n, err := io.ReadFull(r.source, buffer)
	r.offset += int64(n)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return rleanim.ErrFormat.Wrap(io.ErrUnexpectedEOF).WithMessage(
			fmt.Sprintf("%s truncated at offset %d", what, r.offset))
	}
	return rleanim.ErrIOFailed.Wrap(err)
}
