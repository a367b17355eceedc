package track

import (
	"context"
	"runtime"
)

// LoopFilterClass selects which LoopFilter implementation the channel
// driver builds from the configured FilterParams tuples.
type LoopFilterClass int

const (
	// SimpleLoopFilterClass builds independent code/carrier filters.
	SimpleLoopFilterClass LoopFilterClass = iota
	// AidedLoopFilterClass builds carrier-aided code tracking filters.
	AidedLoopFilterClass
)

// ProgressSink receives non-blocking, monotone-in-aggregate progress
// updates from the parallel dispatcher. Implementations must not block;
// Report may be called concurrently from multiple channel workers.
type ProgressSink interface {
	Report(channelIndex int, fractionDone float64)
}

// Options configures a Track run (spec.md sec 6).
type Options struct {
	MsToTrack int // upper bound on integrated ms; 0 means "as much as the stream allows"

	SamplingFreq float64
	ChippingRate float64
	IF           float64

	LoopFilterClass          LoopFilterClass
	Stage1LoopFilterParams   FilterParams
	Stage2CoherentMs         int // 0 disables stage 2
	Stage2LoopFilterParams   *FilterParams

	CorrelatorImpl Correlator // nil means TrackCorrelate{}
	NavMsgImpl     NavMsg     // nil means StubNavMsg{}

	Multi   bool
	Workers int // 0 means runtime.GOMAXPROCS(0)

	ShowProgress     bool // purely cosmetic per spec.md sec 6
	Progress         ProgressSink
	ProgressEveryMs  int // default 200, per original_source's "if i % 200 == 0"

	caCodes [32]CACode
}

// safetyMarginMs is the 22 ms lookahead the correlator may need past the
// last requested millisecond, per spec.md sec 4/sec 6 table.
const safetyMarginMs = 22

func (o Options) stage2Enabled() bool {
	return o.Stage2CoherentMs >= 2 && o.Stage2LoopFilterParams != nil
}

func (o Options) correlator() Correlator {
	if o.CorrelatorImpl != nil {
		return o.CorrelatorImpl
	}
	return TrackCorrelate{}
}

func (o Options) navMsg() NavMsg {
	if o.NavMsgImpl != nil {
		return o.NavMsgImpl
	}
	return StubNavMsg{}
}

func (o Options) progressEveryMs() int {
	if o.ProgressEveryMs > 0 {
		return o.ProgressEveryMs
	}
	return 200
}

// correlatorLookahead bounds how many samples runChannel hands the
// correlator per call: enough for a full code epoch even at the fastest
// plausible code rate, with headroom.
func (o Options) correlatorLookahead() int {
	n := int(o.SamplingFreq/o.ChippingRate*caCodeLength) + int(o.SamplingFreq/1000) + 16
	return n
}

func (o Options) newStage1LoopFilter() (LoopFilter, error) {
	switch o.LoopFilterClass {
	case AidedLoopFilterClass:
		return NewAidedLoopFilter(o.Stage1LoopFilterParams)
	default:
		return NewSimpleLoopFilter(o.Stage1LoopFilterParams)
	}
}

// Validate performs the InvalidParams checks of spec.md sec 7 once, at
// driver entry. A failing Options must never start a channel.
func (o Options) Validate() error {
	if o.SamplingFreq <= 0 {
		return invalidParams("sampling_freq must be positive, got %v", o.SamplingFreq)
	}
	if o.ChippingRate <= 0 {
		return invalidParams("chipping_rate must be positive, got %v", o.ChippingRate)
	}
	if err := o.Stage1LoopFilterParams.validate(); err != nil {
		return err
	}
	if o.Stage2CoherentMs != 0 {
		if o.Stage2CoherentMs < 2 {
			return invalidParams("stage2_coherent_ms must be >= 2 when set, got %d", o.Stage2CoherentMs)
		}
		if o.Stage2LoopFilterParams == nil {
			return invalidParams("stage2_coherent_ms is set but stage2_loop_filter_params is nil")
		}
		if err := o.Stage2LoopFilterParams.validate(); err != nil {
			return err
		}
	}
	if o.Workers < 0 {
		return invalidParams("workers must be >= 0, got %d", o.Workers)
	}
	return nil
}

func (o Options) workerCount() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// effectiveMsToTrack clamps MsToTrack to the sample length minus the
// correlator's safety margin, per the "ms_to_track | clamped to sample
// length - 22 ms safety margin" row of spec.md sec 6's option table.
func effectiveMsToTrack(requested int, sampleCount int64, samplingFreq float64) int {
	streamMs := int(1e3*float64(sampleCount)/samplingFreq) - safetyMarginMs
	if streamMs < 0 {
		streamMs = 0
	}
	if requested <= 0 || streamMs < requested {
		return streamMs
	}
	return requested
}

// Track is the driver entry point: it validates opts once, builds the C/A
// code table, and fans channels out (in parallel or sequentially per
// opts.Multi), returning one TrackResult per input channel in input order
// regardless of execution order (spec.md sec 4.6).
func Track(ctx context.Context, samples SampleStream, channels []ChannelSeed, opts Options) ([]TrackResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	opts.caCodes = BuildCACodeTable()

	return dispatch(ctx, samples, channels, opts)
}
