// Package sampleio implements track.SampleStream adapters over real
// sources of baseband IF samples: a flat binary recording on disk, and
// live capture off a sound device, grounded on the teacher's src/audio.go
// ALSA/OSS sound-card interface and its (declared but, pre-transform,
// unused) github.com/gordonklaus/portaudio dependency.
package sampleio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// FileStream reads little-endian float32 IF samples from a flat binary
// file, implementing track.SampleStream. It is the typed, positional
// replacement for the teacher's file-backed "UDP/SDR" audio input path
// (src/audio.go's non-soundcard ingestion), minus its OSS/ALSA coupling.
type FileStream struct {
	f            *os.File
	samplingFreq float64
	length       int64 // in samples
}

// OpenFileStream opens path and reports its length as a whole number of
// 4-byte float32 samples at samplingFreq Hz.
func OpenFileStream(path string, samplingFreq float64) (*FileStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sampleio: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("sampleio: stat %s: %w", path, err)
	}
	return &FileStream{
		f:            f,
		samplingFreq: samplingFreq,
		length:       info.Size() / 4,
	}, nil
}

// Close releases the underlying file handle.
func (s *FileStream) Close() error { return s.f.Close() }

func (s *FileStream) SamplingFreq() float64 { return s.samplingFreq }
func (s *FileStream) Len() int64            { return s.length }

// Samples reads up to n samples starting at absolute sample index from. A
// short read at end-of-file returns whatever was actually available,
// matching SampleStream's documented "short result signals end of stream"
// contract; os.File.ReadAt is safe for concurrent use across channels.
func (s *FileStream) Samples(from int64, n int) []float64 {
	if from < 0 || from >= s.length || n <= 0 {
		return nil
	}
	if from+int64(n) > s.length {
		n = int(s.length - from)
	}

	raw := make([]byte, n*4)
	read, err := s.f.ReadAt(raw, from*4)
	if err != nil && read == 0 {
		return nil
	}
	raw = raw[:read-(read%4)]

	out := make([]float64, len(raw)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(raw[i*4:])
		out[i] = float64(math.Float32frombits(bits))
	}
	return out
}
