package pngchunk

import (
	"bytes"
	"hash/crc32"
	"testing"
)

func TestChecksumMatchesIEEE(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("123456789"),
		[]byte("IEND"),
		append([]byte("PLTE"), 0x11, 0x22, 0x33, 0x00, 0x00, 0x00),
		bytes.Repeat([]byte{0xff, 0x00, 0xa5}, 257),
	}
	for _, in := range inputs {
		if got, want := Checksum(in), crc32.ChecksumIEEE(in); got != want {
			t.Errorf("Checksum(%d bytes) = %08x, want %08x", len(in), got, want)
		}
	}
}

func TestChecksumKnownValues(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"123456789", 0xcbf43926},
		{"IEND", 0xae426082},
	}
	for _, tc := range tests {
		if got := Checksum([]byte(tc.in)); got != tc.want {
			t.Errorf("Checksum(%q) = %08x, want %08x", tc.in, got, tc.want)
		}
	}
}

func TestFileWalk(t *testing.T) {
	buf := rawPNG(ihdr(3), rawChunk("PLTE", []byte{1, 2, 3, 4, 5, 6}), rawChunk("IEND", nil))
	f, err := NewFile(buf)
	if err != nil {
		t.Fatalf("NewFile() failed: %v", err)
	}

	var tags []string
	for {
		c, err := f.Next()
		if err != nil {
			t.Fatalf("Next() failed: %v", err)
		}
		tags = append(tags, TagString(c.Type))
		if c.Type == TagPLTE {
			if c.Length != 6 {
				t.Errorf("PLTE length = %d, want 6", c.Length)
			}
			data := f.Data(c)
			data[0] = 0xee
			if sum := f.UpdateCRC(c); sum != f.CRC(c) {
				t.Errorf("UpdateCRC() = %08x, stored %08x", sum, f.CRC(c))
			}
		}
		if c.Type == TagIEND {
			break
		}
	}

	if got := []string{"IHDR", "PLTE", "IEND"}; len(tags) != 3 || tags[0] != got[0] || tags[1] != got[1] || tags[2] != got[2] {
		t.Errorf("walked %v, want %v", tags, got)
	}
	// Payload edits land in the shared buffer.
	if idx := bytes.Index(f.Bytes(), []byte("PLTE")); f.Bytes()[idx+4] != 0xee {
		t.Error("Data() edit not visible in Bytes()")
	}
	if _, err := f.Next(); err == nil {
		t.Error("Next() past IEND succeeded, want ErrTruncated")
	}
}

func TestTag(t *testing.T) {
	if TagPLTE != 0x504c5445 {
		t.Errorf("TagPLTE = %08x, want 504c5445", TagPLTE)
	}
	if got := TagString(TagTRNS); got != "tRNS" {
		t.Errorf("TagString(TagTRNS) = %q, want tRNS", got)
	}
}
