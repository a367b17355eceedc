package track

import "math"

// FilterParams reifies the source's positional filter-coefficient tuple
// (code_bw, code_zeta, code_k, carr_bw, carr_zeta, carr_k, loop_freq,
// carr_aiding_igain?, carr_to_code_ratio?) as a named struct per the Design
// Note in spec.md sec 9. The aiding fields are ignored by SimpleLoopFilter.
type FilterParams struct {
	CodeBW, CodeZeta, CodeK float64
	CarrBW, CarrZeta, CarrK float64
	LoopFreq                float64
	CarrAidingIGain         float64
	CarrToCodeRatio         float64
}

func (p FilterParams) validate() error {
	if p.CodeBW <= 0 || p.CarrBW <= 0 {
		return invalidParams("loop filter noise bandwidth must be positive (code=%v carr=%v)", p.CodeBW, p.CarrBW)
	}
	if p.LoopFreq <= 0 {
		return invalidParams("loop filter frequency must be positive (got %v)", p.LoopFreq)
	}
	return nil
}

// LoopFilter is the common capability set of the dual code-DLL/carrier-PLL
// tracking loop: start, feed discriminators, retune coefficients without
// resetting NCO state, and read back the current NCO commands.
type LoopFilter interface {
	Start(codeFreq, carrFreq float64)
	Update(e, p, l complex128) (codeFreq, carrFreq float64)
	Retune(params FilterParams)
	CodeFreq() float64
	CarrFreq() float64
}

// secondOrderFilter is a discretised 2nd-order loop filter (proportional
// term plus a running-sum, backward-Euler integral of the continuous design
// parameterised by noise bandwidth, damping, and gain), shared by the code
// and carrier arms of both loop filter variants.
type secondOrderFilter struct {
	a2, a3   float64 // discrete filter coefficients
	integral float64
	freq     float64
}

// newSecondOrderFilter derives the discrete coefficients from noise
// bandwidth (Hz), damping ratio, loop gain, and loop update rate, from the
// standard tau1/tau2 2nd order PLL/DLL design used throughout GNSS tracking
// literature (and swiftnav's track.c, whose interface original_source
// wraps); step integrates with a plain running sum.
func newSecondOrderFilter(bw, zeta, k, loopFreq, initFreq float64) secondOrderFilter {
	wn := bw / (zeta + 1/(4*zeta))
	t := 1 / loopFreq
	tau1 := k / (wn * wn)
	tau2 := 2 * zeta / wn

	a2coef := tau2 / tau1
	a3coef := t / tau1

	return secondOrderFilter{
		a2:       a2coef,
		a3:       a3coef,
		integral: initFreq,
		freq:     initFreq,
	}
}

func (f *secondOrderFilter) retune(bw, zeta, k, loopFreq float64) {
	replacement := newSecondOrderFilter(bw, zeta, k, loopFreq, f.freq)
	replacement.integral = f.integral
	*f = replacement
}

// step advances the filter by one discriminator sample and returns the new
// NCO command.
func (f *secondOrderFilter) step(disc float64) float64 {
	f.integral += f.a3 * disc
	f.freq = f.integral + f.a2*disc
	return f.freq
}

// codeDiscriminator is the normalised non-coherent early-minus-late power
// discriminator, guarded against the |E|+|L| ~ 0 degeneracy per spec.md
// sec 7 (NaN containment).
func codeDiscriminator(e, l complex128) float64 {
	ae, al := cabs(e), cabs(l)
	denom := ae + al
	if denom < 1e-12 {
		return 0
	}
	return (ae - al) / denom
}

// carrDiscriminator is the carrier phase discriminator: the four-quadrant
// atan2 of the prompt, in cycles. Being four-quadrant, it is not insensitive
// to data bits: a sign flip of P moves its output by half a cycle.
// atan2(0, 0) is defined as 0 by Go's math.Atan2, satisfying spec.md's
// guard requirement directly.
func carrDiscriminator(p complex128) float64 {
	return math.Atan2(imag(p), real(p)) / (2 * math.Pi)
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// SimpleLoopFilter runs independent 2nd-order DLL and PLL filters with no
// cross-coupling.
type SimpleLoopFilter struct {
	params FilterParams
	code   secondOrderFilter
	carr   secondOrderFilter
}

// NewSimpleLoopFilter constructs a SimpleLoopFilter from a coefficient
// tuple. The NCO frequencies are set by the subsequent Start call.
func NewSimpleLoopFilter(params FilterParams) (*SimpleLoopFilter, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &SimpleLoopFilter{params: params}, nil
}

func (f *SimpleLoopFilter) Start(codeFreq, carrFreq float64) {
	f.code = newSecondOrderFilter(f.params.CodeBW, f.params.CodeZeta, f.params.CodeK, f.params.LoopFreq, codeFreq)
	f.carr = newSecondOrderFilter(f.params.CarrBW, f.params.CarrZeta, f.params.CarrK, f.params.LoopFreq, carrFreq)
}

func (f *SimpleLoopFilter) Update(e, p, l complex128) (float64, float64) {
	codeFreq := f.code.step(codeDiscriminator(e, l))
	carrFreq := f.carr.step(carrDiscriminator(p))
	return codeFreq, carrFreq
}

func (f *SimpleLoopFilter) Retune(params FilterParams) {
	f.params = params
	f.code.retune(params.CodeBW, params.CodeZeta, params.CodeK, params.LoopFreq)
	f.carr.retune(params.CarrBW, params.CarrZeta, params.CarrK, params.LoopFreq)
}

func (f *SimpleLoopFilter) CodeFreq() float64 { return f.code.freq }
func (f *SimpleLoopFilter) CarrFreq() float64 { return f.carr.freq }

// AidedLoopFilter is a SimpleLoopFilter plus an integral carrier-aiding
// term: a fraction of the carrier loop's integral, scaled by the
// carrier-to-code frequency ratio, is added into the code NCO command so
// that carrier dynamics help steady the code loop (spec.md sec 4.2).
type AidedLoopFilter struct {
	inner       SimpleLoopFilter
	aidingIGain float64
	ratio       float64
	carrIntAcc  float64
}

// NewAidedLoopFilter constructs an AidedLoopFilter. CarrAidingIGain is used
// as given (zero disables aiding); CarrToCodeRatio defaults to
// CarrierToCodeRatio, 1540, if left zero.
func NewAidedLoopFilter(params FilterParams) (*AidedLoopFilter, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if params.CarrToCodeRatio == 0 {
		params.CarrToCodeRatio = CarrierToCodeRatio
	}
	inner := SimpleLoopFilter{params: params}
	return &AidedLoopFilter{
		inner:       inner,
		aidingIGain: params.CarrAidingIGain,
		ratio:       params.CarrToCodeRatio,
	}, nil
}

func (f *AidedLoopFilter) Start(codeFreq, carrFreq float64) {
	f.inner.Start(codeFreq, carrFreq)
	f.carrIntAcc = 0
}

func (f *AidedLoopFilter) Update(e, p, l complex128) (float64, float64) {
	carrDisc := carrDiscriminator(p)
	carrFreq := f.inner.carr.step(carrDisc)

	f.carrIntAcc += f.aidingIGain * carrDisc
	codeBase := f.inner.code.step(codeDiscriminator(e, l))
	codeFreq := codeBase + f.carrIntAcc/f.ratio

	f.inner.code.freq = codeFreq
	return codeFreq, carrFreq
}

func (f *AidedLoopFilter) Retune(params FilterParams) {
	if params.CarrToCodeRatio == 0 {
		params.CarrToCodeRatio = CarrierToCodeRatio
	}
	f.inner.Retune(params)
	f.aidingIGain = params.CarrAidingIGain
	f.ratio = params.CarrToCodeRatio
}

func (f *AidedLoopFilter) CodeFreq() float64 { return f.inner.CodeFreq() }
func (f *AidedLoopFilter) CarrFreq() float64 { return f.inner.CarrFreq() }
