package radio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/charmbracelet/log"
)

// SampleSize is the on-disk size of one CF32 sample: little endian float32
// I then Q.
const SampleSize = 8

// Recording is a capture held fully in memory.
type Recording struct {
	Path    string
	Samples []complex64
}

// Open reads the whole capture at path.
func Open(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening IQ file: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		log.Debugf("[radio] %s is %d bytes (%d samples)", path, info.Size(), info.Size()/SampleSize)
	}

	samples, err := ReadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	log.Debugf("[radio] Read %d samples from %s", len(samples), path)
	return &Recording{Path: path, Samples: samples}, nil
}

// ReadSamples reads CF32 samples until EOF. A trailing partial sample is
// dropped the same way as a clean EOF; any other read error is returned.
func ReadSamples(r io.Reader) ([]complex64, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	var samples []complex64
	var buf [SampleSize]byte
	for {
		_, err := io.ReadFull(br, buf[:])
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return samples, nil
		}
		if err != nil {
			return nil, err
		}
		i := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
		q := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
		samples = append(samples, complex(i, q))
	}
}

// WriteSamples writes samples in the format ReadSamples reads.
func WriteSamples(w io.Writer, samples []complex64) error {
	bw := bufio.NewWriter(w)
	var buf [SampleSize]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(real(s)))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(imag(s)))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func Create(path string, samples []complex64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating IQ file: %w", err)
	}
	if err := WriteSamples(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
