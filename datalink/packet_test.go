package datalink

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameBits builds address, PCF, payload and a correct CRC with no preamble.
func frameBits(addr uint32, pid uint8, noAck bool, payload []byte) Bits {
	var bits Bits
	bits = bits.AppendUint(uint64(addr), AddressBits)
	bits = bits.AppendUint(uint64(len(payload)), LengthBits)
	bits = bits.AppendUint(uint64(pid), PIDBits)
	if noAck {
		bits = bits.AppendUint(1, NoAckBits)
	} else {
		bits = bits.AppendUint(0, NoAckBits)
	}
	bits = append(bits, BitsFromBytes(payload)...)
	return AppendCRC(bits)
}

func TestMaxFrameBits(t *testing.T) {
	assert.Equal(t, 313, MaxFrameBits)
	assert.Equal(t, MaxFrameBits, FrameBits(MaxPayload))
}

func TestParsePacket(t *testing.T) {
	bits := append(Bits{0, 0, 0}, frameBits(0xAABBCCDD, 1, true, []byte{0x12, 0x34})...)

	p, err := ParsePacket(bits, 3)
	require.NoError(t, err)

	want := Packet{
		Offset:  3,
		Address: [4]byte{0xAA, 0xBB, 0xCC, 0xDD},
		Length:  2,
		PID:     1,
		NoAck:   true,
		Payload: []byte{0x12, 0x34},
		CRC:     CRC16(bits[3 : 3+AddressBits+PCFBits+16]),
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("ParsePacket mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "address=aabbccdd,  pld=1,  payload=1234", p.String())
}

func TestParsePacketEmptyPayload(t *testing.T) {
	p, err := ParsePacket(frameBits(0x01020304, 3, false, nil), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Length)
	assert.Empty(t, p.Payload)
	assert.Equal(t, "address=01020304,  pld=3,  payload=", p.String())
}

func TestParsePacketMaxLength(t *testing.T) {
	payload := make([]byte, MaxPayload)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	p, err := ParsePacket(frameBits(0xE7E7E7E7, 2, false, payload), 0)
	require.NoError(t, err)
	assert.Equal(t, MaxPayload, p.Length)
	assert.Equal(t, payload, p.Payload)
}

func TestParsePacketLengthTooLong(t *testing.T) {
	// Address and a length of 33, then the buffer ends. The length check
	// has to fire before any further field is read.
	var bits Bits
	bits = bits.AppendUint(0xAABBCCDD, AddressBits)
	bits = bits.AppendUint(33, LengthBits)

	_, err := ParsePacket(bits, 0)
	assert.ErrorIs(t, err, ErrLength)
	assert.NotErrorIs(t, err, ErrTruncated)
}

func TestParsePacketBadCRC(t *testing.T) {
	bits := frameBits(0xAABBCCDD, 1, false, []byte{0x12, 0x34})
	bits[AddressBits+PCFBits] ^= 1

	_, err := ParsePacket(bits, 0)
	assert.ErrorIs(t, err, ErrCRC)
}

func TestParsePacketTruncated(t *testing.T) {
	bits := frameBits(0xAABBCCDD, 1, false, []byte{0x12, 0x34})

	for _, cut := range []int{10, AddressBits + 3, AddressBits + PCFBits + 4, len(bits) - 1} {
		_, err := ParsePacket(bits[:cut], 0)
		assert.ErrorIs(t, err, ErrTruncated, "cut at %d", cut)
	}
}

func TestEncodeFrameParses(t *testing.T) {
	in := Packet{
		Address: [4]byte{0xE7, 0xE7, 0xE7, 0xE7},
		PID:     2,
		NoAck:   true,
		Payload: []byte("hello"),
	}
	bits, err := EncodeFrame(in)
	require.NoError(t, err)
	assert.Len(t, bits, PreambleBits+FrameBits(5))
	assert.NotEqual(t, bits[PreambleBits-1], bits[PreambleBits], "preamble must alternate into the address")

	p, err := ParsePacket(bits, PreambleBits)
	require.NoError(t, err)
	assert.Equal(t, in.Address, p.Address)
	assert.Equal(t, in.PID, p.PID)
	assert.Equal(t, in.NoAck, p.NoAck)
	assert.Equal(t, in.Payload, p.Payload)
}

func TestEncodeFrameRejects(t *testing.T) {
	_, err := EncodeFrame(Packet{Payload: make([]byte, MaxPayload+1)})
	assert.ErrorIs(t, err, ErrLength)

	_, err = EncodeFrame(Packet{PID: 4})
	assert.Error(t, err)
}
