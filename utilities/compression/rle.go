package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/rleanim"
)

const (
	// MaxShortRunLength is the longest run that fits in a two-byte record.
	MaxShortRunLength = 127
	// MaxRunLength is the longest run a single record can hold.
	MaxRunLength = 32767

	longRunFlag = 0x80
)

// RunRecordSize returns the number of bytes needed to encode a run of the given
// length, or 0 if no single record can hold it.
func RunRecordSize(runLength int) int {
	switch {
	case runLength < 1 || runLength > MaxRunLength:
		return 0
	case runLength <= MaxShortRunLength:
		return 2
	default:
		return 3
	}
}

// WriteRun encodes a single run at the beginning of dst and returns the number
// of bytes written (2 or 3).
//
// Runs of length 0 or longer than [MaxRunLength] can't be represented and fail
// with [rleanim.ErrEncodingInvariant]; callers are expected to split long runs
// before getting here.
func WriteRun(dst []byte, run ByteRun) (int, error) {
	size := RunRecordSize(run.RunLength)
	if size == 0 {
		return 0, rleanim.ErrEncodingInvariant.WithMessage(
			fmt.Sprintf("can't write a run of %d x %02x", run.RunLength, run.Byte))
	}
	if len(dst) < size {
		return 0, rleanim.ErrInvalidArgument.Wrap(io.ErrShortBuffer)
	}

	if size == 2 {
		dst[0] = byte(run.RunLength)
		dst[1] = run.Byte
		return 2, nil
	}

	dst[0] = byte(run.RunLength>>8) | longRunFlag
	dst[1] = byte(run.RunLength)
	dst[2] = run.Byte
	return 3, nil
}

// ReadRun decodes the record at the beginning of src. It returns the run and
// the number of bytes the record occupied.
//
// A record cut short by the end of src, or one with a length of 0, fails with
// an error matching [rleanim.ErrFormat].
func ReadRun(src []byte) (ByteRun, int, error) {
	if len(src) < 2 {
		return InvalidRLERun, 0, truncatedRecordError(len(src))
	}

	runLength := int(src[0])
	consumed := 1
	if runLength&longRunFlag != 0 {
		if len(src) < 3 {
			return InvalidRLERun, 0, truncatedRecordError(len(src))
		}
		runLength = (runLength&^longRunFlag)<<8 | int(src[1])
		consumed++
	}

	if runLength == 0 {
		return InvalidRLERun, 0, rleanim.ErrFormat.WithMessage("run of length 0")
	}
	return ByteRun{Byte: src[consumed], RunLength: runLength}, consumed + 1, nil
}

func truncatedRecordError(remaining int) error {
	return rleanim.ErrFormat.Wrap(io.ErrUnexpectedEOF).WithMessage(
		fmt.Sprintf("run record truncated, only %d byte(s) left", remaining))
}

// EncodeChannel run-length encodes every sample in the view into dst and
// returns the number of bytes written. It never reads outside the view.
//
// dst must be large enough for the worst case of 2 bytes per sample.
func EncodeChannel(dst []byte, view StridedView) (int, error) {
	grouper := NewRunLengthGrouper(view)
	written := 0

	for {
		run, err := grouper.GetNextRun()
		if errors.Is(err, io.EOF) {
			return written, nil
		}

		n, err := WriteRun(dst[written:], run)
		if err != nil {
			return written, err
		}
		written += n
	}
}

// DecodeChannel expands records from src into every sample of the view and
// returns the number of bytes of src it consumed. Decoding stops as soon as
// the view is full, so src may contain data for further channels.
//
// It fails with an error matching [rleanim.ErrFormat] if src runs out before
// the view is full, or if a run would overshoot the end of the view.
func DecodeChannel(view StridedView, src []byte) (int, error) {
	remaining := view.Len()
	filled := 0
	consumed := 0

	for remaining > 0 {
		if consumed >= len(src) {
			return consumed, rleanim.ErrFormat.Wrap(io.ErrUnexpectedEOF).WithMessage(
				fmt.Sprintf("stream ended with %d sample(s) still owed", remaining))
		}

		run, n, err := ReadRun(src[consumed:])
		if err != nil {
			return consumed, err
		}
		if run.RunLength > remaining {
			return consumed, rleanim.ErrFormat.WithMessage(
				fmt.Sprintf(
					"run of %d at byte %d overshoots the %d sample(s) remaining",
					run.RunLength,
					consumed,
					remaining,
				),
			)
		}

		view.Fill(filled, run.RunLength, run.Byte)
		filled += run.RunLength
		remaining -= run.RunLength
		consumed += n
	}
	return consumed, nil
}
