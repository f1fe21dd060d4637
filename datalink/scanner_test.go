package datalink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// preambleFrame is 16 alternating bits rolling into address 0xAABBCCDD,
// length 2, pid 1, no-ack 0, payload 0x1234 and its CRC, padded with idle
// zeros on both sides.
func preambleFrame() Bits {
	bits := make(Bits, 20)
	for i := 0; i < 16; i++ {
		bits = append(bits, byte(i+1)&1)
	}
	bits = append(bits, frameBits(0xAABBCCDD, 1, false, []byte{0x12, 0x34})...)
	return append(bits, make(Bits, MaxFrameBits)...)
}

func TestScanFindsPacket(t *testing.T) {
	pkts := New().DecodeAll(preambleFrame())

	require.Len(t, pkts, 1)
	assert.Equal(t, "address=aabbccdd,  pld=1,  payload=1234", pkts[0].String())
	assert.Equal(t, 36, pkts[0].Offset)
}

func TestDecoderStats(t *testing.T) {
	d := New()
	d.DecodeAll(preambleFrame())

	assert.Equal(t, 1, d.Stats.Accepted)
	assert.Equal(t, 1, d.Stats.PerAddress["aabbccdd"])
	assert.Equal(t, d.Stats.Candidates, d.Stats.Accepted+d.Stats.CRCRejects+d.Stats.LengthRejects+d.Stats.Truncated)
	assert.Greater(t, d.Stats.Candidates, 1, "positions inside the preamble are tried too")
	assert.Equal(t, len(preambleFrame()), d.Stats.Bits)
}

func TestScanBurstsInOrder(t *testing.T) {
	first, err := Burst(Packet{Address: [4]byte{0xE7, 0xE7, 0xE7, 0xE7}, PID: 0, Payload: []byte{1}}, 12, 40)
	require.NoError(t, err)
	second, err := Burst(Packet{Address: [4]byte{0x12, 0x34, 0x56, 0x78}, PID: 3, Payload: []byte("abc")}, 12, MaxFrameBits)
	require.NoError(t, err)

	pkts := New().DecodeAll(append(first, second...))
	require.Len(t, pkts, 2)
	assert.Equal(t, "address=e7e7e7e7,  pld=0,  payload=01", pkts[0].String())
	assert.Equal(t, "address=12345678,  pld=3,  payload=616263", pkts[1].String())
	assert.Less(t, pkts[0].Offset, pkts[1].Offset)
}

func TestScanSkipsTrailingMargin(t *testing.T) {
	bits := preambleFrame()
	// Drop one bit of the idle tail: the frame start is now within
	// MaxFrameBits of the end and is never tried.
	bits = bits[:36+MaxFrameBits-1]
	assert.Empty(t, New().DecodeAll(bits))
}

func TestScanShortBuffers(t *testing.T) {
	for _, n := range []int{0, 1, 2, MaxFrameBits, MaxFrameBits + 1} {
		assert.Empty(t, New().DecodeAll(make(Bits, n)), "len %d", n)
	}
}

func TestScanLength33NearEnd(t *testing.T) {
	// An alternating run straight into a length field of 33, with only
	// MaxFrameBits left in the buffer.
	var bits Bits
	for i := 0; i < 16; i++ {
		bits = append(bits, byte(i+1)&1)
	}
	start := len(bits)
	bits = bits.AppendUint(0xAAAAAAAA, AddressBits)
	bits = bits.AppendUint(33, LengthBits)
	bits = append(bits, make(Bits, start+MaxFrameBits-len(bits))...)

	d := New()
	assert.NotPanics(t, func() { d.DecodeAll(bits) })
	assert.Zero(t, d.Stats.Accepted)
	assert.GreaterOrEqual(t, d.Stats.LengthRejects, 1)
}

func TestAltCountTracksRun(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bits := Bits(rapid.SliceOfN(rapid.ByteRange(0, 1), 2, 200).Draw(t, "bits"))

		var s Scanner
		for i := 1; i < len(bits); i++ {
			s.step(bits, i)

			run := 0
			for j := i; j >= 1 && bits[j] != bits[j-1]; j-- {
				run++
			}
			if bits[i] == bits[i-1] {
				assert.Zero(t, s.AltCount(), "equal bits at %d must reset the count", i)
			}
			assert.LessOrEqual(t, s.AltCount(), run)
			assert.Equal(t, run, s.AltCount())
		}
	})
}

func TestConstantBitsNeverScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 2000).Draw(t, "n")
		bit := rapid.ByteRange(0, 1).Draw(t, "bit")
		bits := make(Bits, n)
		for i := range bits {
			bits[i] = bit
		}

		s := Scanner{}
		tried := 0
		s.Candidate = func(int, Packet, error) { tried++ }
		var emitted int
		s.Scan(bits, func(Packet) { emitted++ })

		assert.Less(t, s.AltCount(), MinAltRun)
		assert.Zero(t, tried)
		assert.Zero(t, emitted)
	})
}
