package container

import (
	"fmt"
	"io"

	"github.com/dargueta/rleanim"
)

// WriterState is the position of a [Writer] in the container's lifecycle.
type WriterState int

const (
	StateUninitialized WriterState = iota
	StateHeaderWritten
	StateFrameWritten
	StateClosed
)

func (s WriterState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHeaderWritten:
		return "header written"
	case StateFrameWritten:
		return "frame written"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("WriterState(%d)", int(s))
	}
}

var zeroPadding [4]byte

// Writer writes a container to a sink, strictly in order: the global header,
// then each frame. It does no buffering of its own and never closes the sink.
//
// Writer is not safe for concurrent use. Frames may be compressed in parallel,
// but only one goroutine may write them.
type Writer struct {
	sink          io.Writer
	state         WriterState
	header        GlobalHeader
	framesWritten uint32
	bytesWritten  int64
	// err is set by the first failed write to the sink. Every method returns it
	// from then on.
	err error
}

func NewWriter(sink io.Writer) *Writer {
	return &Writer{sink: sink}
}

// State returns where the writer is in the container lifecycle.
func (w *Writer) State() WriterState {
	return w.state
}

// FramesWritten returns the number of frames successfully written so far.
func (w *Writer) FramesWritten() uint32 {
	return w.framesWritten
}

// BytesWritten returns the number of bytes successfully passed to the sink.
func (w *Writer) BytesWritten() int64 {
	return w.bytesWritten
}

// WriteGlobalHeader writes the container header. It must be called exactly
// once, before any frames.
func (w *Writer) WriteGlobalHeader(header GlobalHeader) error {
	if w.err != nil {
		return w.err
	}
	if w.state != StateUninitialized {
		return rleanim.ErrInvalidUsage.WithMessage(
			fmt.Sprintf("can't write global header, writer is %s", w.state))
	}

	err := header.Validate()
	if err != nil {
		return err
	}

	data, err := header.MarshalBinary()
	if err != nil {
		return err
	}

	err = w.write(data)
	if err != nil {
		return err
	}
	w.header = header
	w.state = StateHeaderWritten
	return nil
}

// WriteFrame writes a frame header, its payload, and whatever padding is needed
// to end the frame on a 4-byte boundary.
//
// header.DataLength must equal len(payload). The writer doesn't look at the
// payload, or interpret the offsets and format in the header.
func (w *Writer) WriteFrame(header FrameHeader, payload []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.state != StateHeaderWritten && w.state != StateFrameWritten {
		return rleanim.ErrInvalidUsage.WithMessage(
			fmt.Sprintf("can't write a frame, writer is %s", w.state))
	}
	if w.framesWritten >= w.header.FrameCount {
		return rleanim.ErrInvalidUsage.WithMessage(
			fmt.Sprintf(
				"global header declared %d frame(s), can't write another",
				w.header.FrameCount,
			),
		)
	}
	if int64(header.DataLength) != int64(len(payload)) {
		return rleanim.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"frame header says payload is %d bytes, got %d",
				header.DataLength,
				len(payload),
			),
		)
	}

	data, err := header.MarshalBinary()
	if err != nil {
		return err
	}

	err = w.write(data)
	if err != nil {
		return err
	}
	err = w.write(payload)
	if err != nil {
		return err
	}
	err = w.write(zeroPadding[:header.PaddingSize()])
	if err != nil {
		return err
	}

	w.framesWritten++
	w.state = StateFrameWritten
	return nil
}

// Close marks the container as finished. The sink is left open.
//
// It fails with an error matching [rleanim.ErrInvalidUsage] if the global
// header hasn't been written, if fewer frames were written than the header
// declared, or if the writer is already closed. The writer is closed either
// way, except in the last case.
func (w *Writer) Close() error {
	if w.state == StateClosed {
		return rleanim.ErrInvalidUsage.WithMessage("writer already closed")
	}

	previousState := w.state
	w.state = StateClosed

	if w.err != nil {
		return w.err
	}
	if previousState == StateUninitialized {
		return rleanim.ErrInvalidUsage.WithMessage("closed before global header was written")
	}
	if w.framesWritten != w.header.FrameCount {
		return rleanim.ErrInvalidUsage.WithMessage(
			fmt.Sprintf(
				"global header declared %d frame(s), only %d written",
				w.header.FrameCount,
				w.framesWritten,
			),
		)
	}
	return nil
}

func (w *Writer) write(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	n, err := w.sink.Write(data)
	w.bytesWritten += int64(n)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = rleanim.ErrIOFailed.Wrap(err)
		return w.err
	}
	return nil
}
