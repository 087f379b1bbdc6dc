package pngchunk

// crcPoly is the reflected IEEE 802.3 polynomial used by PNG.
const crcPoly = 0xEDB88320

var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for n := range table {
		c := uint32(n)
		for range 8 {
			if c&1 != 0 {
				c = crcPoly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[n] = c
	}
	return table
}

// Checksum returns the PNG CRC-32 of buf.
func Checksum(buf []byte) uint32 {
	c := uint32(0xFFFFFFFF)
	for _, b := range buf {
		c = crcTable[byte(c)^b] ^ (c >> 8)
	}
	return c ^ 0xFFFFFFFF
}
