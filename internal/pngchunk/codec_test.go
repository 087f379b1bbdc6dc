package pngchunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tran/internal/core"
	"github.com/vovakirdan/tran/internal/transform"
)

// encodePaletted renders a w x h indexed image that uses every palette entry.
func encodePaletted(t *testing.T, palette color.Palette, w, h int) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % len(palette))
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() failed: %v", err)
	}
	return buf.Bytes()
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// rawChunk serializes one chunk with a reference CRC.
func rawChunk(tag string, data []byte) []byte {
	out := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(data)))
	copy(out[4:8], tag)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[4:]))
}

func ihdr(colorType byte) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], 1)
	binary.BigEndian.PutUint32(data[4:8], 1)
	data[8] = 8
	data[9] = colorType
	return rawChunk("IHDR", data)
}

func rawPNG(chunks ...[]byte) []byte {
	out := append([]byte{}, Signature[:]...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func rgba(c core.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func TestRecolorMapEndToEnd(t *testing.T) {
	old := core.MustParseHex("#112233")
	repl := core.MustParseHex("#445566")

	original := encodePaletted(t, color.Palette{rgba(old)}, 1, 1)
	path := writeTemp(t, "icon.png", original)

	tr := &transform.Map{Pairs: []transform.Pair{{New: repl, Old: old}}}
	if _, err := Recolor(path, path, tr); err != nil {
		t.Fatalf("Recolor() failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(original) {
		t.Fatalf("output length = %d, want %d", len(got), len(original))
	}

	// Only the 3 palette bytes and the 4 CRC bytes of PLTE may differ.
	plte := bytes.Index(original, []byte("PLTE"))
	if plte < 0 {
		t.Fatal("fixture has no PLTE chunk")
	}
	dataStart, crcStart, crcEnd := plte+4, plte+7, plte+11
	paletteDiffs := 0
	for i := range original {
		if original[i] == got[i] {
			continue
		}
		switch {
		case i >= dataStart && i < crcStart:
			paletteDiffs++
		case i >= crcStart && i < crcEnd:
		default:
			t.Errorf("byte %d changed outside the PLTE payload and CRC", i)
		}
	}
	if paletteDiffs != 3 {
		t.Errorf("%d palette bytes changed, want 3", paletteDiffs)
	}
	if !bytes.Equal(got[dataStart:crcStart], []byte{0x44, 0x55, 0x66}) {
		t.Errorf("palette bytes = % x, want 44 55 66", got[dataStart:crcStart])
	}

	// The standard decoder verifies every chunk CRC.
	img, err := png.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("png.Decode() of recolored file failed: %v", err)
	}
	pal, ok := img.(*image.Paletted)
	if !ok {
		t.Fatalf("decoded %T, want *image.Paletted", img)
	}
	if pal.Palette[0] != rgba(repl) {
		t.Errorf("decoded palette[0] = %v, want %v", pal.Palette[0], rgba(repl))
	}
}

func TestRecolorCRCMatchesReference(t *testing.T) {
	palette := color.Palette{
		rgba(core.MustParseHex("#204060")),
		rgba(core.MustParseHex("#102030")),
		rgba(core.Black),
	}
	path := writeTemp(t, "gradient.png", encodePaletted(t, palette, 3, 2))

	tr := &transform.Gradient{Primary: core.MustParseHex("#80a0c0")}
	if _, err := Recolor(path, path, tr); err != nil {
		t.Fatalf("Recolor() failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	f, err := NewFile(data)
	if err != nil {
		t.Fatalf("NewFile() failed: %v", err)
	}
	for {
		c, err := f.Next()
		if err != nil {
			t.Fatalf("Next() failed: %v", err)
		}
		want := crc32.ChecksumIEEE(data[c.offset+LengthSize : c.dataEnd()])
		if got := f.CRC(c); got != want {
			t.Errorf("%s CRC = %08x, want %08x", TagString(c.Type), got, want)
		}
		if c.Type == TagPLTE {
			got := decodePalette(f.Data(c))
			want := []core.Color{
				core.MustParseHex("#80a0c0"),
				core.RGB(0x40, 0x50, 0x60),
				core.Black,
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("palette[%d] = %v, want %v", i, got[i], want[i])
				}
			}
		}
		if c.Type == TagIEND {
			break
		}
	}
}

func TestRecolorToSeparateDestination(t *testing.T) {
	old := core.MustParseHex("#112233")
	original := encodePaletted(t, color.Palette{rgba(old), rgba(core.White)}, 2, 1)
	src := writeTemp(t, "src.png", original)
	dst := filepath.Join(t.TempDir(), "dst.png")

	tr := &transform.Map{Pairs: []transform.Pair{{New: core.MustParseHex("#abcdef"), Old: old}}}
	if _, err := Recolor(src, dst, tr); err != nil {
		t.Fatalf("Recolor() failed: %v", err)
	}

	if got, _ := os.ReadFile(src); !bytes.Equal(got, original) {
		t.Error("source file was modified")
	}
	info, err := Inspect(dst)
	if err != nil {
		t.Fatalf("Inspect(dst) failed: %v", err)
	}
	if info.Palette[0] != core.MustParseHex("#abcdef") || info.Palette[1] != core.White {
		t.Errorf("dst palette = %v", info.Palette)
	}
}

func TestRecolorRGBUnsupported(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	original := buf.Bytes()
	path := writeTemp(t, "truecolor.png", original)

	tr := &transform.Map{Pairs: []transform.Pair{{New: core.White, Old: core.Black}}}
	written, err := Recolor(path, path, tr)
	if !errors.Is(err, core.ErrUnsupported) || written {
		t.Fatalf("Recolor() error = %v, want ErrUnsupported", err)
	}
	if got, _ := os.ReadFile(path); !bytes.Equal(got, original) {
		t.Error("truecolor source was modified")
	}
}

func TestRecolorGrayscaleIsNoop(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	original := buf.Bytes()
	src := writeTemp(t, "gray.png", original)
	dst := filepath.Join(t.TempDir(), "out.png")

	written, err := Recolor(src, dst, &transform.Gradient{Primary: core.White})
	if err != nil {
		t.Fatalf("Recolor() failed: %v", err)
	}
	if written {
		t.Error("Recolor() written = true for a grayscale image")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("grayscale recolor wrote a destination file")
	}
	if got, _ := os.ReadFile(src); !bytes.Equal(got, original) {
		t.Error("grayscale source was modified")
	}
}

func TestRecolorWithHook(t *testing.T) {
	old := core.MustParseHex("#112233")
	tr := &transform.Map{Pairs: []transform.Pair{{New: core.White, Old: old}}}

	var gray bytes.Buffer
	if err := png.Encode(&gray, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	calls := 0
	hook := func() error { calls++; return nil }
	if _, err := RecolorWith(writeTemp(t, "gray.png", gray.Bytes()), filepath.Join(t.TempDir(), "out.png"), tr, hook); err != nil {
		t.Fatalf("RecolorWith(gray) failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("hook called %d times for a grayscale image, want 0", calls)
	}

	original := encodePaletted(t, color.Palette{rgba(old)}, 1, 1)
	path := writeTemp(t, "icon.png", original)
	errHook := errors.New("hook failed")
	written, err := RecolorWith(path, path, tr, func() error { calls++; return errHook })
	if !errors.Is(err, errHook) || written {
		t.Fatalf("RecolorWith() = %v, %v, want false, hook error", written, err)
	}
	if calls != 1 {
		t.Errorf("hook called %d times, want 1", calls)
	}
	if got, _ := os.ReadFile(path); !bytes.Equal(got, original) {
		t.Error("image written despite hook error")
	}
}

func TestRecolorStructuralErrors(t *testing.T) {
	plte := rawChunk("PLTE", []byte{0x11, 0x22, 0x33})
	iend := rawChunk("IEND", nil)

	truncatedPLTE := rawChunk("PLTE", []byte{0x11, 0x22, 0x33})
	truncatedPLTE = truncatedPLTE[:len(truncatedPLTE)-2]

	tests := []struct {
		name    string
		data    []byte
		want    error
		message string
	}{
		{"empty", nil, core.ErrPNGFormat, "shorter than the signature"},
		{"bad signature", []byte("GIF89a-not-a-png"), core.ErrPNGFormat, "signature byte 0"},
		{"bad signature late byte", append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, 0x00}, iend...), core.ErrPNGFormat, "signature byte 7"},
		{"no chunks", rawPNG(), ErrTruncated, "truncated"},
		{"ihdr not first", rawPNG(plte, ihdr(3), iend), ErrNoIHDR, "found PLTE"},
		{"short ihdr", rawPNG(rawChunk("IHDR", make([]byte, 9)), iend), ErrNoColorType, "color type"},
		{"invalid color type", rawPNG(ihdr(5), iend), core.ErrPNGFormat, "color type 5"},
		{"missing iend", rawPNG(ihdr(3), plte), ErrTruncated, "truncated"},
		{"truncated chunk", rawPNG(ihdr(3), truncatedPLTE), ErrTruncated, "PLTE chunk declares 3 bytes"},
		{"gradient without colors", rawPNG(ihdr(3), rawChunk("PLTE", []byte{0, 0, 0, 255, 255, 255}), iend), core.ErrPNGFormat, "no colors"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTemp(t, "broken.png", tc.data)
			dst := filepath.Join(t.TempDir(), "out.png")

			_, err := Recolor(path, dst, &transform.Gradient{Primary: core.MustParseHex("#123456")})
			if !errors.Is(err, tc.want) {
				t.Fatalf("Recolor() error = %v, want %v", err, tc.want)
			}
			if !errors.Is(err, core.ErrPNGFormat) {
				t.Errorf("Recolor() error = %v, want it to wrap ErrPNGFormat", err)
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("Recolor() error = %q, want it to contain %q", err, tc.message)
			}
			if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
				t.Error("destination written despite error")
			}
		})
	}
}

func TestRecolorMissingFile(t *testing.T) {
	dir := t.TempDir()
	tr := &transform.Gradient{Primary: core.White}

	for _, path := range []string{filepath.Join(dir, "missing.png"), dir} {
		if _, err := Recolor(path, path, tr); !errors.Is(err, core.ErrFileNotFound) {
			t.Errorf("Recolor(%q) error = %v, want ErrFileNotFound", path, err)
		}
	}
}

func TestInspect(t *testing.T) {
	palette := color.Palette{rgba(core.MustParseHex("#112233")), rgba(core.MustParseHex("#445566"))}
	path := writeTemp(t, "icon.png", encodePaletted(t, palette, 2, 2))

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() failed: %v", err)
	}
	if info.ColorType != Palette {
		t.Errorf("ColorType = %v, want palette", info.ColorType)
	}
	if len(info.Palette) != 2 || info.Palette[1] != core.MustParseHex("#445566") {
		t.Errorf("Palette = %v", info.Palette)
	}
	if info.Chunks[0] != "IHDR" || info.Chunks[len(info.Chunks)-1] != "IEND" {
		t.Errorf("Chunks = %v, want IHDR ... IEND", info.Chunks)
	}
}

func TestInspectTransparency(t *testing.T) {
	idat := rawChunk("IDAT", []byte{0})
	tests := []struct {
		name         string
		data         []byte
		imageChunks  int
		transparency bool
	}{
		{"opaque", rawPNG(ihdr(3), rawChunk("PLTE", []byte{1, 2, 3}), idat, rawChunk("IEND", nil)), 1, false},
		{"trns and split idat", rawPNG(ihdr(3), rawChunk("PLTE", []byte{1, 2, 3}), rawChunk("tRNS", []byte{0x80}), idat, idat, rawChunk("IEND", nil)), 2, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Inspect(writeTemp(t, "icon.png", tc.data))
			if err != nil {
				t.Fatalf("Inspect() failed: %v", err)
			}
			if info.ImageChunks != tc.imageChunks || info.Transparency != tc.transparency {
				t.Errorf("ImageChunks = %d, Transparency = %v, want %d, %v",
					info.ImageChunks, info.Transparency, tc.imageChunks, tc.transparency)
			}
		})
	}
}

func TestColorTypeString(t *testing.T) {
	tests := []struct {
		ct   ColorType
		want string
	}{
		{Grayscale, "grayscale"},
		{RGB, "rgb"},
		{Palette, "palette"},
		{GrayscaleAlpha, "grayscale-alpha"},
		{RGBA, "rgba"},
		{ColorType(9), "unknown(9)"},
	}
	for _, tc := range tests {
		if got := tc.ct.String(); got != tc.want {
			t.Errorf("ColorType(%d).String() = %q, want %q", tc.ct, got, tc.want)
		}
	}
}
