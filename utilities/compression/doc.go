// Package compression implements the per-channel run-length encoding used for
// animation frames.
//
// Frames are stored as raw RGBA pixels, four interleaved bytes per pixel.
// Animations like spinners and cursors use very few colors and tend to have
// large flat areas, and a single channel (alpha especially) is far more
// uniform than the pixel as a whole. Each channel is therefore compressed on
// its own: the encoder walks the pixel buffer with a stride of 4 starting at
// the channel's offset, groups identical samples into runs, and writes one
// record per run. The four channel streams are concatenated in R, G, B, A
// order with no markers between them; a decoder finds the channel boundaries
// by counting samples, since every channel has exactly width * height of them.
//
// A record is two or three bytes:
//
//	0LLLLLLL VVVVVVVV              length 1-127
//	1HHHHHHH LLLLLLLL VVVVVVVV     length 128-32767 (H = high 7 bits)
//
// The value byte always comes last. Runs longer than 32767 samples are split
// into consecutive records with the same value, e.g. a run of 40000 zeroes is
// `FF FF 00  9C 41 00` (32767 + 7233).
//
// The worst case is a channel where every sample differs from its neighbor,
// which costs 2 bytes per sample. A frame therefore never compresses to more
// than width * height * 8 bytes; see [MaxCompressedSize].

package compression
