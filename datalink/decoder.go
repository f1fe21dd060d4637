package datalink

import (
	"errors"

	"github.com/charmbracelet/log"
)

type Stats struct {
	Bits          int            `yaml:"bits"`
	Candidates    int            `yaml:"candidates"`
	LengthRejects int            `yaml:"length_rejects"`
	CRCRejects    int            `yaml:"crc_rejects"`
	Truncated     int            `yaml:"truncated"`
	Accepted      int            `yaml:"accepted"`
	PerAddress    map[string]int `yaml:"per_address"`
}

// Decoder runs a Scanner over a demodulated bit buffer and keeps counts of
// what it saw.
type Decoder struct {
	Stats   Stats
	scanner Scanner
}

func New() *Decoder {
	d := &Decoder{
		Stats: Stats{PerAddress: make(map[string]int)},
	}
	d.scanner.Candidate = d.candidate
	return d
}

func (d *Decoder) candidate(offset int, p Packet, err error) {
	d.Stats.Candidates++
	switch {
	case err == nil:
		d.Stats.Accepted++
		d.Stats.PerAddress[p.AddressHex()]++
		log.Debugf("[datalink] Got packet at bit %d: address: %s pid: %d length: %d", offset, p.AddressHex(), p.PID, p.Length)
	case errors.Is(err, ErrLength):
		d.Stats.LengthRejects++
	case errors.Is(err, ErrCRC):
		d.Stats.CRCRejects++
	case errors.Is(err, ErrTruncated):
		d.Stats.Truncated++
	}
}

// Decode scans bits and hands each valid packet to emit as it is found.
// Decode can be called again on a new buffer; counts accumulate.
func (d *Decoder) Decode(bits Bits, emit func(Packet)) {
	log.Debugf("[datalink] Scanning %d bits", len(bits))
	d.Stats.Bits += len(bits)
	d.scanner.Scan(bits, emit)
	log.Debugf("[datalink] %d candidates, %d accepted, %d crc rejects, %d length rejects",
		d.Stats.Candidates, d.Stats.Accepted, d.Stats.CRCRejects, d.Stats.LengthRejects)
}

// DecodeAll is Decode collecting into a slice.
func (d *Decoder) DecodeAll(bits Bits) []Packet {
	var pkts []Packet
	d.Decode(bits, func(p Packet) {
		pkts = append(pkts, p)
	})
	return pkts
}
