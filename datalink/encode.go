package datalink

import "fmt"

// PreambleBits is the length of the alternating preamble EncodeFrame emits.
const PreambleBits = 8

// EncodeFrame builds the on-air bits for p: a preamble whose last bit
// differs from the first address bit, then address, PCF, payload and CRC.
// Offset and CRC in p are ignored.
func EncodeFrame(p Packet) (Bits, error) {
	if len(p.Payload) > MaxPayload {
		return nil, fmt.Errorf("payload of %d bytes: %w", len(p.Payload), ErrLength)
	}
	if p.PID > 3 {
		return nil, fmt.Errorf("pid %d does not fit in %d bits", p.PID, PIDBits)
	}

	var frame Bits
	for _, octet := range p.Address {
		frame = frame.AppendUint(uint64(octet), 8)
	}
	frame = frame.AppendUint(uint64(len(p.Payload)), LengthBits)
	frame = frame.AppendUint(uint64(p.PID), PIDBits)
	noAck := uint64(0)
	if p.NoAck {
		noAck = 1
	}
	frame = frame.AppendUint(noAck, NoAckBits)
	frame = append(frame, BitsFromBytes(p.Payload)...)
	frame = AppendCRC(frame)

	out := make(Bits, PreambleBits, PreambleBits+len(frame))
	for i := range out {
		// alternate so that out[PreambleBits-1] != frame[0]
		out[i] = (frame[0] ^ byte(PreambleBits-i)) & 1
	}
	return append(out, frame...), nil
}

// Burst surrounds the encoded frame with lead and tail idle bits. The lead
// bits differ from the first preamble bit so the whole preamble counts
// towards the alternating run the Scanner looks for.
func Burst(p Packet, lead, tail int) (Bits, error) {
	frame, err := EncodeFrame(p)
	if err != nil {
		return nil, err
	}
	idle := frame[0] ^ 1
	out := make(Bits, 0, lead+len(frame)+tail)
	for i := 0; i < lead; i++ {
		out = append(out, idle)
	}
	out = append(out, frame...)
	for i := 0; i < tail; i++ {
		out = append(out, idle)
	}
	return out, nil
}
