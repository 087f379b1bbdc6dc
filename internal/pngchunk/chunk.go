// Package pngchunk edits the palette of indexed-color PNG files in place.
//
// A file is read into one buffer and walked chunk by chunk. Chunks are kept
// as offsets into that buffer, so rewriting a PLTE payload and its CRC
// mutates the buffer directly; the whole buffer is written out once at the end.
package pngchunk

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vovakirdan/tran/internal/core"
)

// Signature is the fixed 8-byte PNG file header.
var Signature = [8]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// Tag builds a chunk type from four bytes (big-endian).
func Tag(a, b, c, d byte) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)
}

// Chunk types.
var (
	TagIHDR = Tag('I', 'H', 'D', 'R')
	TagPLTE = Tag('P', 'L', 'T', 'E')
	TagIDAT = Tag('I', 'D', 'A', 'T')
	TagIEND = Tag('I', 'E', 'N', 'D')
	TagTRNS = Tag('t', 'R', 'N', 'S')
)

// Chunk layout sizes.
const (
	SignatureSize   = 8
	LengthSize      = 4
	TypeSize        = 4
	CRCSize         = 4
	ChunkHeaderSize = LengthSize + TypeSize
	ChunkOverhead   = ChunkHeaderSize + CRCSize
)

// IHDR payload layout.
const (
	ihdrBitDepthOffset  = 8
	ihdrColorTypeOffset = 9
)

// Structural errors. All wrap core.ErrPNGFormat.
var (
	ErrTruncated    = fmt.Errorf("%w: truncated chunk stream", core.ErrPNGFormat)
	ErrNoIHDR       = fmt.Errorf("%w: IHDR is not the first chunk", core.ErrPNGFormat)
	ErrNoColorType  = fmt.Errorf("%w: IHDR has no color type byte", core.ErrPNGFormat)
	errBadSignature = errors.New("not a png")
)

// TagString returns the four-character name of a chunk type.
func TagString(tag uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], tag)
	return string(b[:])
}

// Chunk locates one chunk inside a File buffer.
type Chunk struct {
	Length uint32
	Type   uint32
	offset int // position of the length field
}

func (c Chunk) dataStart() int { return c.offset + ChunkHeaderSize }
func (c Chunk) dataEnd() int   { return c.dataStart() + int(c.Length) }

// File is a PNG byte buffer with a chunk cursor.
type File struct {
	buf []byte
	pos int
}

// NewFile checks the signature of buf and positions the cursor on the first chunk.
// The File takes ownership of buf.
func NewFile(buf []byte) (*File, error) {
	if len(buf) < SignatureSize {
		return nil, fmt.Errorf("%w: %w: file is shorter than the signature", core.ErrPNGFormat, errBadSignature)
	}
	for i, want := range Signature {
		if buf[i] != want {
			return nil, fmt.Errorf("%w: %w: signature byte %d is 0x%02x, want 0x%02x",
				core.ErrPNGFormat, errBadSignature, i, buf[i], want)
		}
	}
	return &File{buf: buf, pos: SignatureSize}, nil
}

// Next reads the chunk at the cursor and advances past it.
func (f *File) Next() (Chunk, error) {
	rest := len(f.buf) - f.pos
	if rest < ChunkHeaderSize {
		return Chunk{}, ErrTruncated
	}
	length := binary.BigEndian.Uint32(f.buf[f.pos:])
	if uint64(rest) < uint64(ChunkOverhead)+uint64(length) {
		return Chunk{}, fmt.Errorf("%w: %s chunk declares %d bytes, %d left",
			ErrTruncated, TagString(binary.BigEndian.Uint32(f.buf[f.pos+LengthSize:])), length, rest-ChunkOverhead)
	}

	c := Chunk{
		Length: length,
		Type:   binary.BigEndian.Uint32(f.buf[f.pos+LengthSize:]),
		offset: f.pos,
	}
	f.pos = c.dataEnd() + CRCSize
	return c, nil
}

// Data returns the chunk payload. Writes go straight into the file buffer.
func (f *File) Data(c Chunk) []byte {
	return f.buf[c.dataStart():c.dataEnd()]
}

// CRC returns the checksum stored after the chunk payload.
func (f *File) CRC(c Chunk) uint32 {
	return binary.BigEndian.Uint32(f.buf[c.dataEnd():])
}

// UpdateCRC recomputes the checksum over type and payload and stores it.
func (f *File) UpdateCRC(c Chunk) uint32 {
	sum := Checksum(f.buf[c.offset+LengthSize : c.dataEnd()])
	binary.BigEndian.PutUint32(f.buf[c.dataEnd():], sum)
	return sum
}

// Bytes returns the underlying buffer with all edits applied.
func (f *File) Bytes() []byte {
	return f.buf
}
