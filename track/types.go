package track

// ChannelSeed is the post-acquisition input for one channel: which PRN to
// track, where its code phase and carrier frequency roughly are, and how
// strong the acquisition peak was.
type ChannelSeed struct {
	PRN       int     // 0..31
	CodePhase float64 // chips, real-valued
	CarrFreq  float64 // Hz, including IF
	SNR       float64 // linear, from acquisition
}

// Correlation is the output of one Correlator invocation: early/prompt/late
// complex sums over the samples consumed, plus the NCO state to carry into
// the next call.
type Correlation struct {
	E, P, L       complex128
	BlockSize     int
	CodePhaseOut  float64 // fractional chips, [0, 1)
	CarrPhaseOut  float64 // fractional cycles, [0, 1)
}

// coherentAccumulator sums Correlation outputs across sub-epochs of a
// coherent integration interval before they reach the loop filter.
type coherentAccumulator struct {
	E, P, L complex128
}

func (a *coherentAccumulator) add(c Correlation) {
	a.E += c.E
	a.P += c.P
	a.L += c.L
}

// TrackResult is the time-indexed columnar record produced by one channel's
// driver. All slices share a common length; Truncate shrinks them in place
// once the true step count is known, matching the preallocate-then-resize
// approach of the Python original's TrackResults.resize().
type TrackResult struct {
	PRN    int
	Status byte

	AbsoluteSample     []int64
	CodePhase          []float64
	CodePhaseAcc       []float64
	CodeFreq           []float64
	CarrPhase          []float64
	CarrPhaseAcc       []float64
	CarrFreq           []float64
	E, P, L            []complex128
	CN0                []float64
	TOW                []float64
	CoherentMs         []int
	NavMsgBitPhaseRef  []int
}

// newTrackResult preallocates every column to n steps.
func newTrackResult(prn int, n int) TrackResult {
	return TrackResult{
		PRN:               prn,
		Status:            StatusRunning,
		AbsoluteSample:    make([]int64, n),
		CodePhase:         make([]float64, n),
		CodePhaseAcc:      make([]float64, n),
		CodeFreq:          make([]float64, n),
		CarrPhase:         make([]float64, n),
		CarrPhaseAcc:      make([]float64, n),
		CarrFreq:          make([]float64, n),
		E:                 make([]complex128, n),
		P:                 make([]complex128, n),
		L:                 make([]complex128, n),
		CN0:               make([]float64, n),
		TOW:               make([]float64, n),
		CoherentMs:        make([]int, n),
		NavMsgBitPhaseRef: make([]int, n),
	}
}

// Truncate shrinks all columns to the first n entries, discarding the
// unused tail of the preallocated buffers.
func (r *TrackResult) Truncate(n int) {
	r.AbsoluteSample = r.AbsoluteSample[:n]
	r.CodePhase = r.CodePhase[:n]
	r.CodePhaseAcc = r.CodePhaseAcc[:n]
	r.CodeFreq = r.CodeFreq[:n]
	r.CarrPhase = r.CarrPhase[:n]
	r.CarrPhaseAcc = r.CarrPhaseAcc[:n]
	r.CarrFreq = r.CarrFreq[:n]
	r.E = r.E[:n]
	r.P = r.P[:n]
	r.L = r.L[:n]
	r.CN0 = r.CN0[:n]
	r.TOW = r.TOW[:n]
	r.CoherentMs = r.CoherentMs[:n]
	r.NavMsgBitPhaseRef = r.NavMsgBitPhaseRef[:n]
}

// Len reports the number of recorded steps.
func (r *TrackResult) Len() int {
	return len(r.CodePhase)
}
