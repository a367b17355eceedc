// Package track implements the per-channel GPS L1 C/A carrier and code
// tracking loop: correlator, DLL/PLL loop filter, navigation-bit
// synchroniser, C/N0 estimator, and the channel driver that composes them.
package track

// Signal geometry constants fixed by the GPS ICD.
const (
	// ChipRate is the nominal C/A code chipping rate in chips/second.
	ChipRate = 1.023e6

	// L1Freq is the GPS L1 carrier frequency in Hz.
	L1Freq = 1.57542e9

	// CarrierToCodeRatio is L1Freq / ChipRate, used to scale carrier-aided
	// code tracking in AidedLoopFilter.
	CarrierToCodeRatio = 1540

	// caCodeLength is the number of chips in one C/A code epoch.
	caCodeLength = 1023
)

// DefaultStage1Params mirrors original_source's default_loop_filter /
// stage1_loop_filter_params: an aided loop tuned for acquisition-time
// tracking (1 ms coherent integration).
func DefaultStage1Params() FilterParams {
	return FilterParams{
		CodeBW:          1,
		CodeZeta:        0.7,
		CodeK:           1,
		CarrBW:          25,
		CarrZeta:        0.7,
		CarrK:           1,
		LoopFreq:        1e3,
		CarrAidingIGain: 5,
		CarrToCodeRatio: CarrierToCodeRatio,
	}
}

// DefaultSimpleParams mirrors original_source's default_loop_filter, used
// with SimpleLoopFilter.
func DefaultSimpleParams() FilterParams {
	return FilterParams{
		CodeBW:   2,
		CodeZeta: 0.7,
		CodeK:    1,
		CarrBW:   25,
		CarrZeta: 0.7,
		CarrK:    0.25,
		LoopFreq: 1e3,
	}
}
