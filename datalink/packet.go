package datalink

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Frame geometry, in bits unless noted.
const (
	AddressBits = 32
	LengthBits  = 6
	PIDBits     = 2
	NoAckBits   = 1
	PCFBits     = LengthBits + PIDBits + NoAckBits
	CRCBits     = 16

	// MaxPayload is in bytes.
	MaxPayload   = 32
	MaxFrameBits = AddressBits + PCFBits + MaxPayload*8 + CRCBits
)

var (
	ErrLength    = errors.New("payload length out of range")
	ErrTruncated = errors.New("frame runs past end of buffer")
	ErrCRC       = errors.New("crc mismatch")
)

// FrameBits is the on-air size of a frame carrying length payload bytes,
// excluding the preamble.
func FrameBits(length int) int {
	return AddressBits + PCFBits + length*8 + CRCBits
}

type Packet struct {
	Offset  int
	Address [4]byte
	Length  int
	PID     uint8
	NoAck   bool
	Payload []byte
	CRC     uint16
}

func (p Packet) AddressHex() string {
	return hex.EncodeToString(p.Address[:])
}

func (p Packet) PayloadHex() string {
	return hex.EncodeToString(p.Payload)
}

// String renders the packet the way it is printed on stdout.
func (p Packet) String() string {
	return fmt.Sprintf("address=%s,  pld=%d,  payload=%s", p.AddressHex(), p.PID, p.PayloadHex())
}

// field walks fixed-width fields through a bit window.
type field struct {
	bits   Bits
	offset int
}

func (f *field) next(width int) (uint64, error) {
	v, ok := f.bits.Uint(f.offset, width)
	if !ok {
		return 0, ErrTruncated
	}
	f.offset += width
	return v, nil
}

// ParsePacket reads a frame whose address starts at offset and checks its
// CRC. A packet is only returned with a nil error.
func ParsePacket(bits Bits, offset int) (Packet, error) {
	p := Packet{Offset: offset}
	f := field{bits: bits, offset: offset}

	addr, err := f.next(AddressBits)
	if err != nil {
		return Packet{}, fmt.Errorf("address at %d: %w", offset, err)
	}
	for i := range p.Address {
		p.Address[i] = byte(addr >> uint(24-8*i))
	}

	length, err := f.next(LengthBits)
	if err != nil {
		return Packet{}, fmt.Errorf("length at %d: %w", offset, err)
	}
	if length > MaxPayload {
		return Packet{}, fmt.Errorf("length %d at %d: %w", length, offset, ErrLength)
	}
	p.Length = int(length)

	pid, err := f.next(PIDBits)
	if err != nil {
		return Packet{}, fmt.Errorf("pid at %d: %w", offset, err)
	}
	p.PID = uint8(pid)

	noAck, err := f.next(NoAckBits)
	if err != nil {
		return Packet{}, fmt.Errorf("no-ack at %d: %w", offset, err)
	}
	p.NoAck = noAck == 1

	p.Payload = make([]byte, p.Length)
	for i := range p.Payload {
		octet, err := f.next(8)
		if err != nil {
			return Packet{}, fmt.Errorf("payload at %d: %w", offset, err)
		}
		p.Payload[i] = byte(octet)
	}

	crc, err := f.next(CRCBits)
	if err != nil {
		return Packet{}, fmt.Errorf("crc at %d: %w", offset, err)
	}
	p.CRC = uint16(crc)

	calc, _ := FrameCRC(bits, offset, p.Length)
	if calc != p.CRC {
		return Packet{}, fmt.Errorf("frame at %d: got %04x, want %04x: %w", offset, calc, p.CRC, ErrCRC)
	}
	return p, nil
}
