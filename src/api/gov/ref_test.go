package gov

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		ref  ProposalRef
		want string
		ok   bool
	}{
		{"plain index", ProposalRef{Type: ReferendumV2, ID: "42"}, "42", true},
		{"leading zeros stripped", ProposalRef{Type: ReferendumV2, ID: "042"}, "42", true},
		{"zero", ProposalRef{Type: ReferendumV2, ID: "0"}, "0", true},
		{"junk rejected", ProposalRef{Type: ReferendumV2, ID: "abc"}, "", false},
		{"negative rejected", ProposalRef{Type: ReferendumV2, ID: "-1"}, "", false},
		{"empty rejected", ProposalRef{Type: ReferendumV2, ID: ""}, "", false},
		{"tip keeps hash", ProposalRef{Type: Tip, ID: "0xdeadbeef"}, "0xdeadbeef", true},
		{"tip empty rejected", ProposalRef{Type: Tip, ID: ""}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ref.NormalizeID()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumericID(t *testing.T) {
	n, ok := ProposalRef{Type: ReferendumV2, ID: "42"}.NumericID()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), n)

	_, ok = ProposalRef{Type: Tip, ID: "0xdeadbeef"}.NumericID()
	assert.False(t, ok)

	_, ok = ProposalRef{Type: ReferendumV2, ID: "abc"}.NumericID()
	assert.False(t, ok)
}
