package radio

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/racerxdl/segdsp/tools"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTSize is the block used to find the strongest tone in a capture.
const FFTSize = 4096

type Info struct {
	Samples   int
	Duration  time.Duration
	PowerDBFS float64
	PeakDBFS  float64
	// PeakOffsetHz is the frequency of the strongest FFT bin relative to
	// the capture's center frequency.
	PeakOffsetHz float64
}

func (r *Recording) Info(sampleRate float64) Info {
	info := Info{Samples: len(r.Samples)}
	if sampleRate > 0 {
		info.Duration = time.Duration(float64(len(r.Samples)) / sampleRate * float64(time.Second))
	}
	if len(r.Samples) == 0 {
		info.PowerDBFS = math.Inf(-1)
		info.PeakDBFS = math.Inf(-1)
		return info
	}

	var sum float64
	for _, s := range r.Samples {
		sum += float64(tools.ComplexAbsSquared(s))
	}
	info.PowerDBFS = 10.0 * math.Log10(sum/float64(len(r.Samples)))

	n := min(FFTSize, len(r.Samples))
	input := make([]complex128, n)
	for i := range input {
		input[i] = complex128(r.Samples[i])
	}
	fft := fourier.NewCmplxFFT(n)
	coeff := fft.Coefficients(nil, input)

	peak, peakPower := 0, -1.0
	for i, c := range coeff {
		p := float64(tools.ComplexAbsSquared(complex64(c)))
		if p > peakPower {
			peak, peakPower = i, p
		}
	}
	bin := peak
	if bin >= (n+1)/2 {
		bin -= n
	}
	info.PeakOffsetHz = float64(bin) * sampleRate / float64(n)
	// normalize so a full scale tone reads 0 dBFS
	info.PeakDBFS = 10.0 * math.Log10(peakPower/float64(n*n))
	return info
}

// LogInfo logs what probe reports about a capture.
func LogInfo(r *Recording, sampleRate float64) {
	info := r.Info(sampleRate)
	log.Infof("Capture: %s", r.Path)
	log.Infof("\t- Samples: %d", info.Samples)
	log.Infof("\t- Duration: %v at %.0f samples/s", info.Duration, sampleRate)
	log.Infof("\t- Mean power: %.1f dBFS", info.PowerDBFS)
	log.Infof("\t- Strongest tone: %.0f Hz offset, %.1f dBFS", info.PeakOffsetHz, info.PeakDBFS)
}
