package demod

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/nrfrx/config"
	"github.com/jrwynneiii/nrfrx/datalink"
)

type SNRCalc struct {
	Y1     float64
	Y2     float64
	Alpha  float64
	Beta   float64
	Signal float64
	Noise  float64
}

func NewSNRCalc() *SNRCalc {
	alpha := 0.001
	return &SNRCalc{
		Alpha: alpha,
		Beta:  1.0 - alpha,
	}
}

// Update folds real valued symbols into the running second and fourth
// moments and returns the M2M4 SNR estimate in dB.
//
// D. R. Pauluzzi and N. C. Beaulieu, "A comparison of SNR estimation
// techniques for the AWGN channel," IEEE Trans. Communications, Vol. 48,
// No. 10, pp. 1681-1691, 2000.
func (s *SNRCalc) Update(symbols []float64) float64 {
	for _, v := range symbols {
		sq := v * v
		s.Y1 = s.Alpha*sq + s.Beta*s.Y1
		s.Y2 = s.Alpha*sq*sq + s.Beta*s.Y2
	}

	// Real channel: M4 = 3*M2^2 - 2*S^2
	radicand := (3.0*s.Y1*s.Y1 - s.Y2) / 2.0
	if radicand < 0 || math.IsNaN(radicand) {
		s.Signal, s.Noise = 0, s.Y1
		return 0
	}
	s.Signal = math.Sqrt(radicand)
	s.Noise = s.Y1 - s.Signal
	if s.Noise <= 0 {
		return 0
	}
	return max(0, 10.0*math.Log10(s.Signal/s.Noise))
}

type Demodulator struct {
	sps           float64
	traceLen      int
	ClockRecovery ClockRecovery
	SNR           *SNRCalc
	CurrentSNR    float64

	// Filled in by Demodulate.
	Samples     int
	SoftSymbols int
	Bits        int
	FinalState  TimingState
	Trace       []float64
}

func New(conf config.DemodConf) *Demodulator {
	log.Debugf("Found demod definition: %##v", conf)

	d := Demodulator{
		sps:           conf.SPS,
		traceLen:      conf.TraceLen,
		ClockRecovery: NewClockRecovery(conf.SPS, conf.SPSTolerance, conf.PhaseGain, NewFilterBank(conf.FilterSpan)),
		SNR:           NewSNRCalc(),
	}
	d.ClockRecovery.FromInput = conf.Interpolate == config.InterpolateInput
	log.Debugf("[demod] Clock recovery: sps: %v tolerance: %v phase gain: %v freq gain: %v filter span: %v from input: %v",
		d.ClockRecovery.NominalSPS, d.ClockRecovery.SPSTolerance, d.ClockRecovery.PhaseGain,
		d.ClockRecovery.FreqGain, d.ClockRecovery.Bank.Span, d.ClockRecovery.FromInput)
	return &d
}

// Demodulate runs the whole buffer through quadrature demodulation, timing
// recovery and the bit slicer in one forward pass.
func (d *Demodulator) Demodulate(samples []complex64) datalink.Bits {
	d.Samples = len(samples)

	log.Debugf("[demod] Quadrature demodulating %d samples", len(samples))
	buf := QuadDemod(samples)
	d.SoftSymbols = len(buf)

	log.Debugf("[demod] Running clock recovery over %d soft symbols", len(buf))
	d.FinalState = d.ClockRecovery.Process(buf)
	log.Debugf("[demod] Clock recovery done (sps: %f, mu: %f)", d.FinalState.SPS, d.FinalState.Mu)

	n := min(d.traceLen, len(buf))
	d.Trace = append(d.Trace[:0], buf[:n]...)
	d.CurrentSNR = d.SNR.Update(buf)

	log.Debugf("[demod] Slicing bits")
	bits := SliceBits(buf, d.sps)
	d.Bits = len(bits)
	log.Debugf("[demod] Got %d bits, snr estimate %.1f dB", len(bits), d.CurrentSNR)
	return bits
}
