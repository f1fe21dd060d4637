package datalink

// A run of alternating bits this long is taken as the tail of the
// 0x55/0xAA preamble rolling into the first address bits.
const (
	MinAltRun = 9
	MaxAltRun = 17
)

// Scanner slides over a bit buffer counting alternating bits and tries a
// parse at every position inside the preamble window.
type Scanner struct {
	altCount int

	// Candidate, when set, sees the result of every attempted parse.
	Candidate func(offset int, p Packet, err error)
}

// AltCount is the length of the alternating run ending at the last scanned
// position.
func (s *Scanner) AltCount() int {
	return s.altCount
}

// Scan emits every CRC-valid packet in ascending offset order. Overlapping
// detections are all emitted. Positions closer than MaxFrameBits to the end
// of bits are not tried.
func (s *Scanner) Scan(bits Bits, emit func(Packet)) {
	s.altCount = 0
	for i := 1; i+MaxFrameBits <= len(bits); i++ {
		s.step(bits, i)
		if s.altCount < MinAltRun || s.altCount > MaxAltRun {
			continue
		}

		p, err := ParsePacket(bits, i)
		if s.Candidate != nil {
			s.Candidate(i, p, err)
		}
		if err == nil {
			emit(p)
		}
	}
}

func (s *Scanner) step(bits Bits, i int) {
	if bits[i] != bits[i-1] {
		s.altCount++
	} else {
		s.altCount = 0
	}
}
