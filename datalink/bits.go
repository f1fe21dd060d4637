package datalink

// Bits holds one bit per element, each 0 or 1, in the order they were
// sliced off the air.
type Bits []byte

// Uint reads width bits starting at offset as an MSB-first unsigned
// integer. ok is false if the field runs past the end of b.
func (b Bits) Uint(offset, width int) (v uint64, ok bool) {
	if offset < 0 || width < 0 || width > 64 || offset+width > len(b) {
		return 0, false
	}
	for _, bit := range b[offset : offset+width] {
		v = v<<1 | uint64(bit&1)
	}
	return v, true
}

// BitsFromBytes expands data MSB-first.
func BitsFromBytes(data []byte) Bits {
	bits := make(Bits, 0, len(data)*8)
	for _, octet := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (octet>>uint(i))&1)
		}
	}
	return bits
}

// AppendUint appends the low width bits of v MSB-first.
func (b Bits) AppendUint(v uint64, width int) Bits {
	for i := width - 1; i >= 0; i-- {
		b = append(b, byte(v>>uint(i))&1)
	}
	return b
}
