package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
)

func TestTotalRequested(t *testing.T) {
	tests := []struct {
		name          string
		beneficiaries []indexer.Beneficiary
		requested     string
		want          string
	}{
		{
			name: "sums beneficiaries",
			beneficiaries: []indexer.Beneficiary{
				{Amount: "1000000000000"},
				{Amount: "500000000000"},
			},
			want: "1500000000000",
		},
		{
			name: "precision beyond float64",
			beneficiaries: []indexer.Beneficiary{
				{Amount: "123456789012345678901234567890"},
				{Amount: "1"},
			},
			want: "123456789012345678901234567891",
		},
		{
			name:      "no beneficiaries falls back",
			requested: "42",
			want:      "42",
		},
		{
			name:          "malformed amount falls back",
			beneficiaries: []indexer.Beneficiary{{Amount: "not-a-number"}},
			requested:     "42",
			want:          "42",
		},
		{
			name:          "zero sum prefers declared amount",
			beneficiaries: []indexer.Beneficiary{{Amount: "0"}},
			requested:     "42",
			want:          "42",
		},
		{
			name: "nothing at all",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &indexer.Proposal{Beneficiaries: tt.beneficiaries, RequestedAmount: tt.requested}
			assert.Equal(t, tt.want, TotalRequested(p))
		})
	}
}
