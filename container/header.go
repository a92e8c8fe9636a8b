package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dargueta/rleanim"
	"github.com/noxer/bytewriter"
)

// Magic identifies a container file. It's the four-character code 'anim'.
const Magic uint32 = 0x616e696d

// Version is the only container version this package reads or writes.
const Version uint32 = 1

// DefaultFrameRate is the frame rate used when the caller doesn't pick one.
const DefaultFrameRate uint32 = 12

const (
	GlobalHeaderSize = 24
	FrameHeaderSize  = 24
)

// ImageFormat tells a reader how a frame's payload is encoded.
type ImageFormat uint32

const (
	ImageFormatUnknown ImageFormat = iota
	// ImageFormatRunLengthCompressedPixels is RGBA pixel data run-length
	// encoded one channel at a time.
	ImageFormatRunLengthCompressedPixels
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatRunLengthCompressedPixels:
		return "rle-rgba"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(f))
	}
}

// GlobalHeader is the on-disk representation of the container header. It is
// written exactly once, at the beginning of the file.
type GlobalHeader struct {
	Magic      uint32
	Version    uint32
	Width      uint32
	Height     uint32
	FrameRate  uint32
	FrameCount uint32
}

// NewGlobalHeader returns a header with the magic number and version filled in.
func NewGlobalHeader(width, height, frameRate, frameCount uint32) GlobalHeader {
	return GlobalHeader{
		Magic:      Magic,
		Version:    Version,
		Width:      width,
		Height:     height,
		FrameRate:  frameRate,
		FrameCount: frameCount,
	}
}

// PixelCount gives the number of pixels in a full-size frame.
func (h GlobalHeader) PixelCount() int {
	return int(h.Width) * int(h.Height)
}

// Validate checks the fields a reader depends on.
func (h GlobalHeader) Validate() error {
	if h.Magic != Magic {
		return rleanim.ErrFormat.WithMessage(
			fmt.Sprintf("bad magic number %#08x, expected %#08x", h.Magic, Magic))
	}
	if h.Version != Version {
		return rleanim.ErrNotSupported.WithMessage(
			fmt.Sprintf("container version %d", h.Version))
	}
	if h.Width == 0 || h.Height == 0 {
		return rleanim.ErrFormat.WithMessage(
			fmt.Sprintf("animation has no pixels: %dx%d", h.Width, h.Height))
	}
	return nil
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (h GlobalHeader) MarshalBinary() ([]byte, error) {
	return marshalRecord(&h, GlobalHeaderSize)
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler]. It doesn't validate
// the header; see [GlobalHeader.Validate].
func (h *GlobalHeader) UnmarshalBinary(data []byte) error {
	return unmarshalRecord(data, h, GlobalHeaderSize)
}

// FrameHeader is the on-disk representation of the header preceding each
// frame's payload.
type FrameHeader struct {
	Width   uint32
	Height  uint32
	XOffset uint32
	YOffset uint32
	Format  ImageFormat
	// DataLength is the size of the payload in bytes, not including padding.
	DataLength uint32
}

// NewFrameHeader returns the header for a full-size run-length compressed frame
// at the origin.
func NewFrameHeader(width, height, dataLength uint32) FrameHeader {
	return FrameHeader{
		Width:      width,
		Height:     height,
		Format:     ImageFormatRunLengthCompressedPixels,
		DataLength: dataLength,
	}
}

func (h FrameHeader) PixelCount() int {
	return int(h.Width) * int(h.Height)
}

// PaddingSize gives the number of zero bytes following the payload.
func (h FrameHeader) PaddingSize() int {
	return PaddingSize(h.DataLength)
}

// TotalSize gives the number of bytes the frame occupies in the file: header,
// payload, and padding.
func (h FrameHeader) TotalSize() int64 {
	return FrameHeaderSize + int64(h.DataLength) + int64(h.PaddingSize())
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (h FrameHeader) MarshalBinary() ([]byte, error) {
	return marshalRecord(&h, FrameHeaderSize)
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler].
func (h *FrameHeader) UnmarshalBinary(data []byte) error {
	return unmarshalRecord(data, h, FrameHeaderSize)
}

// PaddingSize returns the number of zero bytes needed after a payload of the
// given length to reach a 4-byte boundary.
func PaddingSize(dataLength uint32) int {
	return int((4 - dataLength%4) % 4)
}

func marshalRecord(record any, size int) ([]byte, error) {
	output := make([]byte, size)
	writer := bytewriter.New(output)

	err := binary.Write(writer, binary.LittleEndian, record)
	if err != nil {
		return nil, rleanim.ErrInvalidArgument.Wrap(err)
	}
	return output, nil
}

func unmarshalRecord(data []byte, record any, size int) error {
	if len(data) < size {
		return rleanim.ErrFormat.Wrap(io.ErrUnexpectedEOF).WithMessage(
			fmt.Sprintf("header needs %d bytes, got %d", size, len(data)))
	}
	return binary.Read(bytes.NewReader(data[:size]), binary.LittleEndian, record)
}
