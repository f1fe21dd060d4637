package demod

import "math"

// TimingState is the Muller & Mueller loop state carried from one soft
// symbol to the next.
type TimingState struct {
	SPS  float64 // current samples per symbol estimate
	Mu   float64 // fractional sample offset, [0,1)
	Last float64 // previous interpolated output
}

func NewTimingState(nominalSPS float64) TimingState {
	return TimingState{SPS: nominalSPS, Mu: 0.5}
}

// ClockRecovery holds the loop constants. It carries no state of its own,
// so one value can drive any number of independent runs.
type ClockRecovery struct {
	NominalSPS   float64
	SPSTolerance float64
	PhaseGain    float64
	FreqGain     float64
	Bank         *FilterBank

	// FromInput runs the interpolator over the raw soft symbol history
	// instead of the loop's previous outputs.
	FromInput bool
}

func NewClockRecovery(nominalSPS, tolerance, phaseGain float64, bank *FilterBank) ClockRecovery {
	return ClockRecovery{
		NominalSPS:   nominalSPS,
		SPSTolerance: tolerance,
		PhaseGain:    phaseGain,
		FreqGain:     0.25 * phaseGain * phaseGain,
		Bank:         bank,
	}
}

func slice(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Step runs one loop iteration for index i, reading the interpolator window
// src[i-7:i+1] and writing the output to dst[i]. With src and dst the same
// slice, dst[i] holds the raw soft symbol on entry and the window covers the
// previous interpolated outputs plus the current symbol.
func (c ClockRecovery) Step(s TimingState, src, dst []float64, i int) TimingState {
	filter := c.Bank.Filter(s.Mu)
	out := src[i]
	if i >= FilterTaps {
		out = filter.Convolve(src[i-FilterTaps+1 : i+1])
	}
	dst[i] = out

	err := slice(s.Last)*out - slice(out)*s.Last
	s.Last = out

	s.SPS += c.FreqGain * err
	if lo := c.NominalSPS - c.SPSTolerance; s.SPS < lo {
		s.SPS = lo
	}
	if hi := c.NominalSPS + c.SPSTolerance; s.SPS > hi {
		s.SPS = hi
	}

	s.Mu += s.SPS + c.PhaseGain*err
	s.Mu -= math.Floor(s.Mu)
	// x - floor(x) rounds up to exactly 1 for tiny negative x
	if s.Mu >= 1 {
		s.Mu = 0
	}
	return s
}

// Process replaces the soft symbols in buf with interpolated outputs and
// returns the final loop state.
func (c ClockRecovery) Process(buf []float64) TimingState {
	src := buf
	if c.FromInput {
		src = make([]float64, len(buf))
		copy(src, buf)
	}
	s := NewTimingState(c.NominalSPS)
	for i := range buf {
		s = c.Step(s, src, buf, i)
	}
	return s
}

// Work is Process on a copy of soft.
func (c ClockRecovery) Work(soft []float64) []float64 {
	out := make([]float64, len(soft))
	copy(out, soft)
	c.Process(out)
	return out
}
