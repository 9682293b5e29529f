package engine

import (
	"github.com/shopspring/decimal"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
)

// TotalRequested computes the decimal-string total a proposal asks for.
// Beneficiary amounts are summed with arbitrary precision; token amounts
// never pass through floating point. Falls back to the declared requested
// amount when beneficiary decoding is unavailable or malformed.
func TotalRequested(p *indexer.Proposal) string {
	if len(p.Beneficiaries) == 0 {
		return p.RequestedAmount
	}
	sum := decimal.Zero
	for _, b := range p.Beneficiaries {
		d, err := decimal.NewFromString(b.Amount)
		if err != nil {
			return p.RequestedAmount
		}
		sum = sum.Add(d)
	}
	if sum.IsZero() && p.RequestedAmount != "" {
		return p.RequestedAmount
	}
	return sum.String()
}
