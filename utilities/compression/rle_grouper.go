package compression

import (
	"io"
)

// ByteRun represents a single run of a particular byte value.
type ByteRun struct {
	// Byte is the byte value for this run.
	Byte byte
	// RunLength gives the number of times the byte occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates the end of the channel was reached.
	RunLength int
}

// InvalidRLERun is returned by [RunLengthGrouper.GetNextRun] once the view is
// exhausted.
var InvalidRLERun = ByteRun{Byte: 0, RunLength: 0}

// RunLengthGrouper splits the samples of a [StridedView] into runs of at most
// [MaxRunLength] identical bytes.
type RunLengthGrouper struct {
	view     StridedView
	position int
}

func NewRunLengthGrouper(view StridedView) *RunLengthGrouper {
	return &RunLengthGrouper{view: view}
}

// GetNextRun returns a [ByteRun] for the next byte or run of byte values in the
// view. Runs longer than [MaxRunLength] are returned in pieces; the next call
// starts a fresh run even if the value is unchanged.
//
// Once the view is exhausted, it returns [InvalidRLERun] and [io.EOF].
func (grouper *RunLengthGrouper) GetNextRun() (ByteRun, error) {
	if grouper.position >= grouper.view.Len() {
		return InvalidRLERun, io.EOF
	}

	firstByte := grouper.view.At(grouper.position)
	grouper.position++

	runLength := 1
	for grouper.position < grouper.view.Len() && runLength < MaxRunLength {
		if grouper.view.At(grouper.position) != firstByte {
			break
		}
		runLength++
		grouper.position++
	}
	return ByteRun{Byte: firstByte, RunLength: runLength}, nil
}
