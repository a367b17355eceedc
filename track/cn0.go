package track

import "math"

// CN0Estimator maintains a one-pole low-pass filter over an instantaneous
// carrier-to-noise-density estimate derived from prompt I/Q, per spec.md
// sec 4.4. Its behaviour is reconstructed from original_source's call
// sites (the swiftnav.track.CN0Estimator class itself isn't in the prep):
// seeded from an initial C/N0 in dB-Hz, updated once per coherent
// integration at loopFreq Hz, re-seeded with the latest estimate whenever
// the channel driver changes coherent integration length at stage
// handover.
type CN0Estimator struct {
	loopFreq float64
	lpfBW    float64
	bw       float64

	cn0   float64
	alpha float64

	prevI, prevQ float64
	haveNIP      bool
}

// NewCN0Estimator constructs a CN0Estimator seeded at cn0_0 dB-Hz.
func NewCN0Estimator(loopFreq, cn0_0, lpfBW, bw float64) *CN0Estimator {
	// One-pole IIR coefficient from the low-pass corner (lpfBW) relative to
	// the update rate (loopFreq), clamped to [0, 1].
	alpha := lpfBW / loopFreq
	if alpha > 1 {
		alpha = 1
	}
	if alpha < 0 {
		alpha = 0
	}
	return &CN0Estimator{
		loopFreq: loopFreq,
		lpfBW:    lpfBW,
		bw:       bw,
		cn0:      cn0_0,
		alpha:    alpha,
	}
}

// Update consumes one coherent prompt I/Q pair and returns the filtered
// C/N0 estimate in dB-Hz.
//
// The instantaneous narrowband-to-wideband power ratio estimator (NWPR)
// compares the coherent power of consecutive prompt samples against their
// incoherent power, a standard GNSS C/N0 estimator; it is smoothed by the
// one-pole filter before being reported, matching the "lowpass of an SNR
// estimate" description in spec.md sec 4.4.
func (c *CN0Estimator) Update(i, q float64) float64 {
	if !c.haveNIP {
		c.prevI, c.prevQ = i, q
		c.haveNIP = true
		return c.cn0
	}

	nbp := (i*c.prevI + q*c.prevQ)
	nbp *= nbp
	wbp := (i*i+q*q)*(c.prevI*c.prevI+c.prevQ*c.prevQ) + 1e-30
	nwpr := nbp / wbp

	var instSNR float64
	if nwpr < 1 {
		instSNR = 1e-6
	} else {
		instSNR = math.Sqrt(2*nwpr-1) / (math.Sqrt(nwpr) - math.Sqrt(2*nwpr-1) + 1e-12)
		if instSNR <= 0 {
			instSNR = 1e-6
		}
	}
	instCN0 := 10*math.Log10(instSNR) + 10*math.Log10(c.loopFreq)

	c.cn0 = c.cn0 + c.alpha*(instCN0-c.cn0)

	c.prevI, c.prevQ = i, q
	return c.cn0
}
