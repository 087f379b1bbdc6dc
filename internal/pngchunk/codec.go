package pngchunk

import (
	"fmt"
	"os"

	"github.com/vovakirdan/tran/internal/core"
	"github.com/vovakirdan/tran/internal/transform"
)

// ColorType is the IHDR color type byte.
type ColorType uint8

const (
	Grayscale      ColorType = 0
	RGB            ColorType = 2
	Palette        ColorType = 3
	GrayscaleAlpha ColorType = 4
	RGBA           ColorType = 6
)

// ParseColorType validates an IHDR color type byte.
func ParseColorType(b byte) (ColorType, error) {
	switch ct := ColorType(b); ct {
	case Grayscale, RGB, Palette, GrayscaleAlpha, RGBA:
		return ct, nil
	}
	return 0, fmt.Errorf("%w: color type %d is invalid", core.ErrPNGFormat, b)
}

// String returns a human-readable color type name.
func (ct ColorType) String() string {
	switch ct {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case Palette:
		return "palette"
	case GrayscaleAlpha:
		return "grayscale-alpha"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(ct))
	}
}

// readHeader consumes the IHDR chunk and returns it with the color type.
func readHeader(f *File) (Chunk, ColorType, error) {
	ihdr, err := f.Next()
	if err != nil {
		return Chunk{}, 0, err
	}
	if ihdr.Type != TagIHDR {
		return Chunk{}, 0, fmt.Errorf("%w: found %s", ErrNoIHDR, TagString(ihdr.Type))
	}
	data := f.Data(ihdr)
	if len(data) <= ihdrColorTypeOffset {
		return Chunk{}, 0, ErrNoColorType
	}
	ct, err := ParseColorType(data[ihdrColorTypeOffset])
	if err != nil {
		return Chunk{}, 0, err
	}
	return ihdr, ct, nil
}

// readFile checks that path is a regular file and reads it whole.
func readFile(path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", core.ErrFileRead, path, err)
	}
	return buf, info.Mode().Perm(), nil
}

// Recolor applies tr to the palette of the PNG at src and writes the result
// to dst, which may equal src. written reports whether dst was written.
//
// Grayscale images are left alone and nothing is written. Truecolor images
// fail with core.ErrUnsupported. Any structural problem aborts before dst is
// touched.
func Recolor(src, dst string, tr transform.Transform) (written bool, err error) {
	return RecolorWith(src, dst, tr, nil)
}

// RecolorWith is Recolor with a hook that runs once the new image is ready
// and just before dst is written. A hook error aborts the write.
func RecolorWith(src, dst string, tr transform.Transform, beforeWrite func() error) (bool, error) {
	buf, perm, err := readFile(src)
	if err != nil {
		return false, err
	}

	f, err := NewFile(buf)
	if err != nil {
		return false, fmt.Errorf("%s: %w", src, err)
	}
	_, ct, err := readHeader(f)
	if err != nil {
		return false, fmt.Errorf("%s: %w", src, err)
	}

	switch ct {
	case Grayscale, GrayscaleAlpha:
		return false, nil
	case RGB, RGBA:
		return false, fmt.Errorf("%w: %s: %s images are not supported", core.ErrUnsupported, src, ct)
	case Palette:
	default:
		panic(fmt.Sprintf("pngchunk: unhandled color type %d", ct))
	}

	for {
		c, err := f.Next()
		if err != nil {
			return false, fmt.Errorf("%s: %w", src, err)
		}
		if c.Type == TagPLTE {
			if err := recolorPalette(f, c, tr); err != nil {
				return false, fmt.Errorf("%s: %w", src, err)
			}
		}
		if c.Type == TagIEND {
			break
		}
	}

	if beforeWrite != nil {
		if err := beforeWrite(); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(dst, f.Bytes(), perm); err != nil {
		return false, fmt.Errorf("%w: writing %s: %w", core.ErrFileRead, dst, err)
	}
	return true, nil
}

// recolorPalette runs tr over the PLTE entries and refreshes the chunk CRC.
func recolorPalette(f *File, c Chunk, tr transform.Transform) error {
	data := f.Data(c)
	palette := decodePalette(data)
	if err := tr.Apply(palette); err != nil {
		return err
	}
	for i, color := range palette {
		data[i*3] = color.R
		data[i*3+1] = color.G
		data[i*3+2] = color.B
	}
	f.UpdateCRC(c)
	return nil
}

func decodePalette(data []byte) []core.Color {
	palette := make([]core.Color, len(data)/3)
	for i := range palette {
		palette[i] = core.RGB(data[i*3], data[i*3+1], data[i*3+2])
	}
	return palette
}

// Info summarizes a PNG for display.
type Info struct {
	ColorType ColorType
	BitDepth  uint8
	Chunks    []string
	Palette   []core.Color
	// ImageChunks counts the IDAT chunks holding the pixel stream.
	ImageChunks int
	// Transparency is set when a tRNS chunk is present.
	Transparency bool
}

// Inspect reads the chunk list and palette of the PNG at path without
// modifying it. Images of any color type are accepted.
func Inspect(path string) (Info, error) {
	buf, _, err := readFile(path)
	if err != nil {
		return Info{}, err
	}

	f, err := NewFile(buf)
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}
	ihdr, ct, err := readHeader(f)
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}

	info := Info{
		ColorType: ct,
		BitDepth:  f.Data(ihdr)[ihdrBitDepthOffset],
		Chunks:    []string{TagString(ihdr.Type)},
	}
	for {
		c, err := f.Next()
		if err != nil {
			return Info{}, fmt.Errorf("%s: %w", path, err)
		}
		info.Chunks = append(info.Chunks, TagString(c.Type))
		switch c.Type {
		case TagPLTE:
			info.Palette = append(info.Palette, decodePalette(f.Data(c))...)
		case TagIDAT:
			info.ImageChunks++
		case TagTRNS:
			info.Transparency = true
		case TagIEND:
			return info, nil
		}
	}
}
