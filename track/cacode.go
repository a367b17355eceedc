package track

// CACode is one PRN's C/A code, pre-padded front and back so the
// correlator can index a half-chip either side of a 1023-chip epoch
// without a modulo branch in the hot inner loop.
//
// Index 0 is ca[1022] (wrap-around), indices 1..1023 are the true chips
// 0..1022, and index 1024 is ca[0] (wrap-around). Values are +1/-1.
type CACode [caCodeLength + 2]int8

// chipsAt returns the chip value at a fractional-chip position using
// truncation toward -inf and modulo-1023 wrap, then looks it up through the
// padded table (offset by +1 to account for the leading wrap element).
func (c CACode) chipsAt(chipPos float64) int8 {
	idx := int(chipPos)
	if chipPos < 0 && float64(idx) != chipPos {
		idx-- // truncate toward -inf
	}
	idx %= caCodeLength
	if idx < 0 {
		idx += caCodeLength
	}
	return c[idx+1]
}

// g2Delays is the per-PRN G2 shift-register tap delay (in chips) from the
// GPS ICD-200 Gold code definition table, PRN 1..32 (index 0 = PRN 1, i.e.
// channel PRN index prn-1 when PRN numbers are 1-based; this package uses
// 0-based PRN indices 0..31 matching PRN 1..32).
var g2Delays = [32]int{
	5, 6, 7, 8, 17, 18, 139, 140, 141, 251,
	252, 254, 255, 256, 257, 258, 469, 470, 471, 472,
	473, 474, 509, 512, 513, 514, 515, 516, 859, 860,
	861, 862,
}

// BuildCACodeTable generates the 32 standard GPS L1 C/A Gold codes from the
// G1/G2 LFSR definition in the ICD (the generateCAcode module the original
// Python imports is not part of the prep, so the code is regenerated from
// the standard polynomial rather than vendored).
//
// The result is not cached: each call regenerates the table, so callers
// should build it once per run and share it read-only across channels
// (Track does this once per call), matching SampleStream/NavMsg's
// shared-read-only-after-construction contract in spec.md §5.
func BuildCACodeTable() [32]CACode {
	var table [32]CACode

	g1 := generateG1()

	for prn := 0; prn < 32; prn++ {
		g2 := generateG2(g2Delays[prn])
		var code [caCodeLength]int8
		for i := 0; i < caCodeLength; i++ {
			bit := g1[i] ^ g2[i]
			if bit == 0 {
				code[i] = 1
			} else {
				code[i] = -1
			}
		}
		table[prn] = padCACode(code)
	}

	return table
}

func padCACode(code [caCodeLength]int8) CACode {
	var c CACode
	c[0] = code[caCodeLength-1]
	copy(c[1:1+caCodeLength], code[:])
	c[caCodeLength+1] = code[0]
	return c
}

// generateG1 runs the fixed G1 LFSR (polynomial x^10+x^3+1, all-ones init)
// for one full 1023-chip period.
func generateG1() [caCodeLength]int8 {
	var reg [10]int8
	for i := range reg {
		reg[i] = 1
	}
	var out [caCodeLength]int8
	for i := 0; i < caCodeLength; i++ {
		out[i] = reg[9]
		fb := reg[9] ^ reg[2]
		copy(reg[1:], reg[:9])
		reg[0] = fb
	}
	return out
}

// generateG2 runs the G2 LFSR (polynomial x^10+x^9+x^8+x^6+x^3+x^2+1,
// all-ones init) and returns its output delayed by delayChips, which
// produces the distinct Gold code per PRN.
func generateG2(delayChips int) [caCodeLength]int8 {
	var reg [10]int8
	for i := range reg {
		reg[i] = 1
	}
	var raw [caCodeLength]int8
	for i := 0; i < caCodeLength; i++ {
		raw[i] = reg[9]
		fb := reg[9] ^ reg[8] ^ reg[7] ^ reg[5] ^ reg[2] ^ reg[1]
		copy(reg[1:], reg[:9])
		reg[0] = fb
	}
	var out [caCodeLength]int8
	for i := 0; i < caCodeLength; i++ {
		out[i] = raw[(i+caCodeLength-delayChips)%caCodeLength]
	}
	return out
}
