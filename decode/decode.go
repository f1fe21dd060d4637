package decode

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/nrfrx/config"
	"github.com/jrwynneiii/nrfrx/datalink"
	"github.com/jrwynneiii/nrfrx/demod"
)

// Sink receives validated packets in the order they are found.
type Sink interface {
	WritePacket(p datalink.Packet) error
}

// LineSink writes one Packet.String line per packet.
type LineSink struct {
	W io.Writer
}

func (s LineSink) WritePacket(p datalink.Packet) error {
	_, err := fmt.Fprintln(s.W, p.String())
	return err
}

// CollectSink keeps every packet in memory.
type CollectSink struct {
	Packets []datalink.Packet
}

func (s *CollectSink) WritePacket(p datalink.Packet) error {
	s.Packets = append(s.Packets, p)
	return nil
}

type Stats struct {
	Input       string            `yaml:"input,omitempty"`
	Samples     int               `yaml:"samples"`
	SoftSymbols int               `yaml:"soft_symbols"`
	NominalSPS  float64           `yaml:"nominal_sps"`
	FinalState  demod.TimingState `yaml:"final_timing"`
	SNR         float64           `yaml:"snr_db"`
	Datalink    datalink.Stats    `yaml:"datalink"`
	Elapsed     time.Duration     `yaml:"elapsed"`
}

type Pipeline struct {
	Demodulator *demod.Demodulator
	Decoder     *datalink.Decoder
	conf        config.Config
}

func New(conf config.Config) *Pipeline {
	return &Pipeline{
		Demodulator: demod.New(conf.Demod),
		Decoder:     datalink.New(),
		conf:        conf,
	}
}

// Run demodulates and decodes samples in one pass, handing each packet to
// every sink. The first sink error stops the run.
func (p *Pipeline) Run(samples []complex64, sinks ...Sink) (Stats, error) {
	start := time.Now()

	bits := p.Demodulator.Demodulate(samples)

	var sinkErr error
	p.Decoder.Decode(bits, func(pkt datalink.Packet) {
		if sinkErr != nil {
			return
		}
		for _, s := range sinks {
			if err := s.WritePacket(pkt); err != nil {
				sinkErr = fmt.Errorf("writing packet at bit %d: %w", pkt.Offset, err)
				return
			}
		}
	})

	stats := Stats{
		Input:       p.conf.Input.Path,
		Samples:     p.Demodulator.Samples,
		SoftSymbols: p.Demodulator.SoftSymbols,
		NominalSPS:  p.conf.Demod.SPS,
		FinalState:  p.Demodulator.FinalState,
		SNR:         p.Demodulator.CurrentSNR,
		Datalink:    p.Decoder.Stats,
		Elapsed:     time.Since(start),
	}
	log.Debugf("Decoded %d packets from %d samples in %v", stats.Datalink.Accepted, stats.Samples, stats.Elapsed)
	return stats, sinkErr
}
