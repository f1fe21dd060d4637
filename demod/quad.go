package demod

import (
	"math"
	"math/cmplx"
)

// QuadDemod returns the phase step between consecutive samples,
// arg(conj(s[i]) * s[i-1]), one value per pair. Non-finite phases from
// corrupt samples come out as 0.
func QuadDemod(samples []complex64) []float64 {
	if len(samples) < 2 {
		return []float64{}
	}
	soft := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		prod := cmplx.Conj(complex128(samples[i])) * complex128(samples[i-1])
		phase := cmplx.Phase(prod)
		if math.IsNaN(phase) || math.IsInf(phase, 0) {
			phase = 0
		}
		soft[i-1] = phase
	}
	return soft
}
