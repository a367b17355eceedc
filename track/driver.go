package track

import (
	"context"
	"math"
)

// SampleStream is the external collaborator providing positional,
// read-only access to baseband samples (spec.md sec 6). Samples must be
// read forward only via a monotonically increasing index; implementations
// are shared read-only across channels.
type SampleStream interface {
	// Samples returns up to n samples starting at absolute index from. A
	// short (or empty) result signals end of stream; it is not an error by
	// itself — the correlator turns "too short for one block" into
	// ErrStreamExhausted.
	Samples(from int64, n int) []float64
	SamplingFreq() float64
	// Len reports the practical bound on the stream, in samples, used only
	// to clamp ms_to_track per spec.md sec 6.
	Len() int64
}

// runChannel executes the closed tracking loop for one channel until
// ms_to_track milliseconds have been integrated, the stream is exhausted,
// or ctx is cancelled. It implements spec.md sec 4.5 exactly, including the
// two Open Question resolutions recorded in DESIGN.md: the acquisition-
// aided code frequency estimate is computed nowhere (excess code rate
// always starts at 0), and the stage-2 handover is gated explicitly on
// "bit sync is synced AND on a bit boundary".
func runChannel(ctx context.Context, seed ChannelSeed, opts Options, msToTrack int, samples SampleStream, progress func(int)) TrackResult {
	result := newTrackResult(seed.PRN, msToTrack)

	loopFilter, err := opts.newStage1LoopFilter()
	if err != nil {
		// Options.Validate should have caught this already; defensively
		// terminate with zero steps rather than panic.
		result.Status = StatusTracked
		result.Truncate(0)
		return result
	}

	bitSync := NewMatchBitSync(20)

	cn0_0 := 10*math.Log10(seed.SNR) + 10*math.Log10(1000) // 1000: channel bandwidth, per original_source
	cn0Est := NewCN0Estimator(1e3, cn0_0, 10, 1e3)

	codeFreqInit := 0.0 // preserved verbatim: no acquisition-aided estimate is used, see DESIGN.md
	loopFilter.Start(codeFreqInit, seed.CarrFreq-opts.IF)

	ca := opts.caCodes[seed.PRN]

	samplesPerChip := int64(math.Round(opts.SamplingFreq / opts.ChippingRate))
	sampleIndex := int64(seed.CodePhase) * samplesPerChip

	codePhase := 0.0
	carrPhase := 0.0
	carrPhaseAcc := 0.0
	codePhaseAcc := 0.0

	stage1 := true
	msTracked := 0
	i := 0
	lastCN0 := cn0_0
	lastTOW := math.NaN()

	for msTracked < msToTrack {
		if i%opts.progressEveryMs() == 0 {
			progress(i)
		}

		select {
		case <-ctx.Done():
			result.Status = StatusCancelled
			result.Truncate(i)
			return result
		default:
		}

		if stage1 && opts.stage2Enabled() && bitSync.Synced() && bitSync.BitPhase() == bitSync.BitPhaseRef() {
			stage1 = false
			stage2Params := *opts.Stage2LoopFilterParams
			loopFilter.Retune(stage2Params)
			cn0Est = NewCN0Estimator(1e3/float64(opts.Stage2CoherentMs), lastCN0, 10, 1e3/float64(opts.Stage2CoherentMs))
		}

		coherentMs := 1
		if !stage1 {
			coherentMs = opts.Stage2CoherentMs
		}

		var acc coherentAccumulator

		for j := 0; j < coherentMs; j++ {
			tail := samples.Samples(sampleIndex, opts.correlatorLookahead())

			corr, cerr := opts.correlator().Correlate(
				tail,
				loopFilter.CodeFreq()+opts.ChippingRate, codePhase,
				loopFilter.CarrFreq()+opts.IF, carrPhase,
				ca, opts.SamplingFreq,
			)
			if cerr != nil {
				result.Status = StatusTracked
				result.Truncate(i)
				return result
			}

			sampleIndex += int64(corr.BlockSize)
			carrPhaseAcc += loopFilter.CarrFreq() * float64(corr.BlockSize) / opts.SamplingFreq
			codePhaseAcc += loopFilter.CodeFreq() * float64(corr.BlockSize) / opts.SamplingFreq
			codePhase = corr.CodePhaseOut
			carrPhase = corr.CarrPhaseOut

			acc.add(corr)
		}

		loopFilter.Update(acc.E, acc.P, acc.L)

		bitSync.Update(real(acc.P), coherentMs)

		tow, ok, bitPhaseRef := opts.navMsg().Update(real(acc.P), coherentMs)
		if ok {
			lastTOW = tow
		} else if math.IsNaN(lastTOW) {
			lastTOW = 0
		} else {
			lastTOW += float64(coherentMs)
		}

		cn0 := cn0Est.Update(real(acc.P), imag(acc.P))
		lastCN0 = cn0

		result.CoherentMs[i] = coherentMs
		result.NavMsgBitPhaseRef[i] = bitPhaseRef
		result.TOW[i] = lastTOW

		result.CarrPhase[i] = carrPhase
		result.CarrPhaseAcc[i] = carrPhaseAcc
		result.CarrFreq[i] = loopFilter.CarrFreq() + opts.IF

		result.CodePhase[i] = codePhase
		result.CodePhaseAcc[i] = codePhaseAcc
		result.CodeFreq[i] = loopFilter.CodeFreq() + opts.ChippingRate

		result.AbsoluteSample[i] = sampleIndex

		result.E[i] = acc.E
		result.P[i] = acc.P
		result.L[i] = acc.L

		result.CN0[i] = cn0

		i++
		msTracked += coherentMs
	}

	result.Status = StatusTracked
	result.Truncate(i)
	return result
}
