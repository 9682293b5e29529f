package gov

import "strconv"

// ProposalRef is the identity triple every source keys on.
type ProposalRef struct {
	Network string
	Type    ProposalType
	ID      string
}

// NormalizeID coerces the wire id to the canonical form for the ref's type:
// hash-identified types keep string ids, all others parse to an integer and
// re-render it (stripping leading zeros and rejecting junk).
func (r ProposalRef) NormalizeID() (string, bool) {
	if r.Type.HashIdentified() {
		return r.ID, r.ID != ""
	}
	n, err := strconv.ParseUint(r.ID, 10, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

// NumericID returns the integer id for index-identified types.
func (r ProposalRef) NumericID() (uint64, bool) {
	if r.Type.HashIdentified() {
		return 0, false
	}
	n, err := strconv.ParseUint(r.ID, 10, 64)
	return n, err == nil
}
