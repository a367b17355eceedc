package sampleio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioStream captures live IF samples off a sound device via
// github.com/gordonklaus/portaudio, buffering everything captured so far
// so that SampleStream's "read forward only, monotonically increasing
// index" contract holds even though capture is unbounded and real-time.
type PortAudioStream struct {
	stream       *portaudio.Stream
	samplingFreq float64

	mu  sync.Mutex
	buf []float64
}

// OpenPortAudioStream opens the default input device at samplingFreq Hz,
// mono, and starts capture immediately.
func OpenPortAudioStream(samplingFreq float64) (*PortAudioStream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("sampleio: portaudio init: %w", err)
	}

	s := &PortAudioStream{samplingFreq: samplingFreq}

	chunk := make([]float32, 2048)
	stream, err := portaudio.OpenDefaultStream(1, 0, samplingFreq, len(chunk), &chunk)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("sampleio: open default stream: %w", err)
	}
	s.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("sampleio: start stream: %w", err)
	}

	go s.pump(stream, chunk)

	return s, nil
}

func (s *PortAudioStream) pump(stream *portaudio.Stream, chunk []float32) {
	for {
		if err := stream.Read(); err != nil {
			return
		}
		s.mu.Lock()
		for _, v := range chunk {
			s.buf = append(s.buf, float64(v))
		}
		s.mu.Unlock()
	}
}

// Close stops capture and releases the portaudio device.
func (s *PortAudioStream) Close() error {
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}

func (s *PortAudioStream) SamplingFreq() float64 { return s.samplingFreq }

// Len reports the number of samples captured so far; it grows as capture
// continues, unlike FileStream's fixed length.
func (s *PortAudioStream) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.buf))
}

// Samples returns up to n already-captured samples starting at from. A
// request past what has been captured so far returns a short (or empty)
// result rather than blocking, per SampleStream's contract; callers
// tracking a live feed are expected to retry.
func (s *PortAudioStream) Samples(from int64, n int) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from < 0 || from >= int64(len(s.buf)) || n <= 0 {
		return nil
	}
	end := from + int64(n)
	if end > int64(len(s.buf)) {
		end = int64(len(s.buf))
	}
	out := make([]float64, end-from)
	copy(out, s.buf[from:end])
	return out
}
