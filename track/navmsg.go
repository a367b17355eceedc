package track

// NavMsg is the external navigation-message decoder collaborator
// (spec.md sec 6). The track package treats its internal state as opaque:
// it is fed the real part of each coherent prompt correlation and either
// hands back a fresh time-of-week or signals that none is available yet,
// plus whatever bit-phase reference it has inferred (-1 until known).
type NavMsg interface {
	Update(promptReal float64, ms int) (tow float64, ok bool, bitPhaseRef int)
}

// StubNavMsg is a no-op NavMsg: it never resolves a TOW or a bit phase.
// The real navigation-message decoder is explicitly out of scope for this
// package (spec.md sec 1); callers that need LibSwiftNavSync or a TOW feed
// should supply their own NavMsg implementation.
type StubNavMsg struct{}

func (StubNavMsg) Update(promptReal float64, ms int) (float64, bool, int) {
	return 0, false, -1
}
