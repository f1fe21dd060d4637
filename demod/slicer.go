package demod

import (
	"math"

	"github.com/jrwynneiii/nrfrx/datalink"
)

// SliceBits takes the first sample of every int(sps) sample chunk and
// decides 0 when its sign bit is set, 1 otherwise. A trailing partial chunk
// still yields a bit.
func SliceBits(interpolated []float64, sps float64) datalink.Bits {
	chunk := int(sps)
	if chunk < 1 {
		chunk = 1
	}
	bits := make(datalink.Bits, 0, (len(interpolated)+chunk-1)/chunk)
	for i := 0; i < len(interpolated); i += chunk {
		if math.Signbit(interpolated[i]) {
			bits = append(bits, 0)
		} else {
			bits = append(bits, 1)
		}
	}
	return bits
}
