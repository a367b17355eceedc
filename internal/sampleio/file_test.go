package sampleio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFloat32File(t *testing.T, values []float32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.f32")
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestFileStream_ReadsWholeFile(t *testing.T) {
	path := writeFloat32File(t, []float32{1, -2, 3.5, -4.25, 5})

	s, err := OpenFileStream(path, 4e6)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 4e6, s.SamplingFreq())
	assert.Equal(t, int64(5), s.Len())

	got := s.Samples(0, 5)
	assert.Equal(t, []float64{1, -2, 3.5, -4.25, 5}, got)
}

func TestFileStream_SamplesAtOffset(t *testing.T) {
	path := writeFloat32File(t, []float32{10, 20, 30, 40, 50})
	s, err := OpenFileStream(path, 1e6)
	require.NoError(t, err)
	defer s.Close()

	got := s.Samples(2, 2)
	assert.Equal(t, []float64{30, 40}, got)
}

func TestFileStream_ShortReadAtEndOfFile(t *testing.T) {
	path := writeFloat32File(t, []float32{1, 2, 3})
	s, err := OpenFileStream(path, 1e6)
	require.NoError(t, err)
	defer s.Close()

	got := s.Samples(1, 10)
	assert.Equal(t, []float64{2, 3}, got)
}

func TestFileStream_OutOfRangeReturnsNil(t *testing.T) {
	path := writeFloat32File(t, []float32{1, 2, 3})
	s, err := OpenFileStream(path, 1e6)
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.Samples(100, 5))
	assert.Nil(t, s.Samples(-1, 5))
}

func TestOpenFileStream_MissingFileErrors(t *testing.T) {
	_, err := OpenFileStream(filepath.Join(t.TempDir(), "missing.f32"), 1e6)
	assert.Error(t, err)
}
