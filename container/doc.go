// Package container reads and writes animation container files.
//
// # Layout
//
// A container is a global header followed by one frame per source image:
//
//	[GlobalHeader(24)] { [FrameHeader(24)][Payload(DataLength)][Padding(0-3)] }*
//
// All header fields are unsigned 32-bit little-endian integers with no padding
// between them. The global header is:
//
//	Magic      0x616E696D ("mina" on disk, the four-character code 'anim')
//	Version    1
//	Width      frame width in pixels
//	Height     frame height in pixels
//	FrameRate  frames per second, 12 by default
//	FrameCount number of frames that follow
//
// Each frame header is:
//
//	Width, Height   frame dimensions
//	XOffset, YOffset position of the frame within the animation (always 0 when
//	                 written by this package's callers, carried through as-is)
//	Format          payload encoding; only run-length compressed pixels exist
//	DataLength      payload size in bytes, excluding padding
//
// The payload is produced by [compression.CompressRGBA]. Zero bytes are added
// after it so that the frame ends on a 4-byte boundary; since both headers are
// 24 bytes, every frame header in the file is 4-byte aligned.
//
// Frames carry no index. Their order in the file is the playback order.
package container
