package datalink

const (
	CRCPoly = 0x1021
	CRCInit = 0xFFFF
)

// CRC16 runs the CCITT polynomial over bits one at a time, MSB first.
// Frames are not byte aligned (41 + 8n bits), so there is no table.
func CRC16(bits Bits) uint16 {
	crc := uint16(CRCInit)
	for _, bit := range bits {
		if bit != byte(crc>>15) {
			crc = crc<<1 ^ CRCPoly
		} else {
			crc <<= 1
		}
	}
	return crc
}

// FrameCRC computes the CRC covering address, PCF and payload of a frame of
// the given payload length starting at offset. ok is false if the covered
// bits run past the end of bits.
func FrameCRC(bits Bits, offset, length int) (crc uint16, ok bool) {
	n := FrameBits(length) - CRCBits
	if offset < 0 || offset+n > len(bits) {
		return 0, false
	}
	return CRC16(bits[offset : offset+n]), true
}

// AppendCRC returns frame followed by its 16 CRC bits.
func AppendCRC(frame Bits) Bits {
	return frame.AppendUint(uint64(CRC16(frame)), CRCBits)
}
