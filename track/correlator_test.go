package track

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allOnesCACode returns a CACode where every chip (including the wrap
// padding) is +1, used to isolate the carrier mixing/integration behaviour
// of the correlator from the code correlation itself.
func allOnesCACode() CACode {
	var c CACode
	for i := range c {
		c[i] = 1
	}
	return c
}

func TestTrackCorrelate_CleanToneMatchingCarrier(t *testing.T) {
	const fs = 4e6
	const fCarr = 1000.0
	n := int(math.Ceil(caCodeLength * fs / ChipRate))
	samples := make([]float64, n+8)
	for i := range samples {
		samples[i] = math.Cos(2 * math.Pi * fCarr * float64(i) / fs)
	}

	corr, err := TrackCorrelate{}.Correlate(samples, ChipRate, 0, fCarr, 0, allOnesCACode(), fs)
	require.NoError(t, err)

	// A clean tone exactly at the mixing frequency demodulates to a real
	// DC term; |P| should be close to half the block size (since
	// cos(x)*cos(x) integrates to 0.5 per sample on average) and its phase
	// near zero.
	assert.InDelta(t, float64(corr.BlockSize)/2, cmplx.Abs(corr.P), float64(corr.BlockSize)*0.05)
	assert.InDelta(t, 0, cmplx.Phase(corr.P), 0.05)
	assert.InDelta(t, cmplx.Abs(corr.E), cmplx.Abs(corr.L), cmplx.Abs(corr.P)*0.01, "E and L must match exactly when ca=+1 everywhere")
}

func TestTrackCorrelate_PureCANoDoppler(t *testing.T) {
	const fs = 4e6
	const chipRate = 1.023e6
	table := BuildCACodeTable()
	ca := table[0]

	n := int(math.Ceil(caCodeLength * fs / chipRate))
	samples := make([]float64, n+8)
	for i := range samples {
		chipPos := float64(i) * chipRate / fs
		samples[i] = float64(ca.chipsAt(chipPos))
	}

	corr, err := TrackCorrelate{}.Correlate(samples, chipRate, 0, 0, 0, ca, fs)
	require.NoError(t, err)

	assert.Greater(t, cmplx.Abs(corr.P), 0.95*float64(corr.BlockSize))
	assert.InDelta(t, cmplx.Abs(corr.E), cmplx.Abs(corr.L), float64(corr.BlockSize)*0.05)
}

func TestTrackCorrelate_BlockSizeSpansOneEpoch(t *testing.T) {
	const fs = 4e6
	const chipRate = 1.023e6
	ca := allOnesCACode()

	samples := make([]float64, int(fs)) // 1 second, plenty
	corr, err := TrackCorrelate{}.Correlate(samples, chipRate, 0.25, chipRate, 0, ca, fs)
	require.NoError(t, err)

	want := int(math.Ceil((caCodeLength - 0.25) * fs / chipRate))
	assert.Equal(t, want, corr.BlockSize)
}

func TestTrackCorrelate_StreamExhausted(t *testing.T) {
	ca := allOnesCACode()
	_, err := TrackCorrelate{}.Correlate(make([]float64, 10), ChipRate, 0, 0, 0, ca, 4e6)
	assert.ErrorIs(t, err, ErrStreamExhausted)
}

func TestWrapHelpers(t *testing.T) {
	assert.InDelta(t, 0.5, wrapUnit(2.5), 1e-9)
	assert.InDelta(t, 0.5, wrapUnit(-0.5), 1e-9)
	assert.InDelta(t, 0, wrapUnit(3), 1e-9)

	assert.InDelta(t, 0.25, wrapChipResidual(1023.25), 1e-9)
	assert.InDelta(t, 0.25, wrapChipResidual(2046.25), 1e-9)
}

func TestTrackCorrelate_PhaseOutputsInUnitRange(t *testing.T) {
	const fs = 4e6
	const chipRate = 1.023e6
	ca := allOnesCACode()
	samples := make([]float64, int(fs))

	codePhase, carrPhase := 0.0, 0.0
	idx := 0
	for step := 0; step < 50; step++ {
		corr, err := TrackCorrelate{}.Correlate(samples[idx:], chipRate+1.7, codePhase, 90.3, carrPhase, ca, fs)
		require.NoError(t, err)
		codePhase, carrPhase = corr.CodePhaseOut, corr.CarrPhaseOut
		idx += corr.BlockSize

		assert.GreaterOrEqual(t, codePhase, 0.0)
		assert.Less(t, codePhase, 1.0)
		assert.GreaterOrEqual(t, carrPhase, 0.0)
		assert.Less(t, carrPhase, 1.0)
	}
}
