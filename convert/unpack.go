package convert

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/rleanim/container"
)

// FrameHandler receives one decoded frame. Returning an error stops [Unpack].
type FrameHandler func(index int, header container.FrameHeader, pixels []byte) error

// Unpack decodes every frame in a container and passes it to handle, in file
// order. It returns the container's global header.
func Unpack(source io.Reader, handle FrameHandler) (container.GlobalHeader, error) {
	reader, err := container.NewReader(source)
	if err != nil {
		return container.GlobalHeader{}, err
	}

	for index := 0; ; index++ {
		frame, err := reader.NextFrame()
		if errors.Is(err, io.EOF) {
			return reader.Header(), nil
		}
		if err != nil {
			return reader.Header(), err
		}

		pixels, err := frame.Pixels()
		if err != nil {
			return reader.Header(), fmt.Errorf("frame %d: %w", index, err)
		}

		err = handle(index, frame.Header, pixels)
		if err != nil {
			return reader.Header(), err
		}
	}
}
