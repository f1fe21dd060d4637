package radio

import (
	"math"
	"math/cmplx"

	"github.com/jrwynneiii/nrfrx/datalink"
)

// Modulate produces unit amplitude IQ at sps samples per bit whose phase
// advances by -pi/2 per sample for a 1 and +pi/2 for a 0, so quadrature
// demodulation reads back +pi/2 and -pi/2. The result starts with one
// reference sample, len(bits)*sps+1 samples in all.
func Modulate(bits datalink.Bits, sps int) []complex64 {
	out := make([]complex64, 0, len(bits)*sps+1)
	phase := 0.0
	out = append(out, 1)
	for _, b := range bits {
		step := math.Pi / 2
		if b == 1 {
			step = -step
		}
		for i := 0; i < sps; i++ {
			phase = math.Remainder(phase+step, 2*math.Pi)
			out = append(out, complex64(cmplx.Rect(1, phase)))
		}
	}
	return out
}

// AddNoise adds complex gaussian noise of the given standard deviation per
// component using next as the source of N(0,1) values.
func AddNoise(samples []complex64, sigma float64, next func() float64) {
	for i := range samples {
		samples[i] += complex(float32(sigma*next()), float32(sigma*next()))
	}
}
