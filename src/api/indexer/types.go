package indexer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
)

// StatusEvent is one lifecycle event as recorded on chain. Append-only;
// block number gives the total order.
type StatusEvent struct {
	Status    string    `json:"status"`
	Block     uint64    `json:"block"`
	Timestamp time.Time `json:"timestamp"`
}

// GroupMember is one linked proposal of the same initiative at another
// governance stage, supplied by the indexer in stage order.
type GroupMember struct {
	Type      gov.ProposalType
	Index     *uint64
	Hash      string
	CreatedAt time.Time
	Events    []StatusEvent
}

// ID returns the canonical id string for the member.
func (m GroupMember) ID() string {
	if m.Index != nil {
		return fmt.Sprintf("%d", *m.Index)
	}
	return m.Hash
}

// Beneficiary is one payout target decoded from call arguments.
type Beneficiary struct {
	Address string `json:"address"`
	// Amount is a decimal string of planck units; never a float.
	Amount string `json:"amount"`
}

// Tally carries referendum vote totals as decimal strings.
type Tally struct {
	Ayes    string `json:"ayes"`
	Nays    string `json:"nays"`
	Support string `json:"support"`
}

// Vote is one recorded vote (motion votes, tips, voter history).
type Vote struct {
	Voter    string `json:"voter"`
	Decision string `json:"decision"`
	Balance  string `json:"balance"`
}

// Proposal is the validated shape of one indexer row. Payloads are checked
// at the response boundary; anything missing identity is rejected there.
type Proposal struct {
	Type      gov.ProposalType
	Index     *uint64
	Hash      string
	Proposer  string
	Curator   string
	CreatedAt time.Time
	Status    string
	Events    []StatusEvent

	// Call/preimage metadata
	Method          string
	Section         string
	Description     string
	Args            json.RawMessage
	RequestedAmount string
	Beneficiaries   []Beneficiary
	Tally           *Tally

	// Linked proposals across stages, in stage order. Membership is
	// supplied by the indexer; the engine never discovers it.
	Group []GroupMember
}

// ID returns the canonical id string (index for numeric types, hash for
// hash-identified ones).
func (p *Proposal) ID() string {
	if p.Index != nil {
		return fmt.Sprintf("%d", *p.Index)
	}
	return p.Hash
}

// Ref builds the identity triple for this proposal on the given network.
func (p *Proposal) Ref(network string) gov.ProposalRef {
	return gov.ProposalRef{Network: network, Type: p.Type, ID: p.ID()}
}

// rawProposal mirrors the wire JSON before validation.
type rawProposal struct {
	Type            string          `json:"type"`
	Index           *uint64         `json:"index"`
	Hash            string          `json:"hash"`
	Proposer        string          `json:"proposer"`
	Curator         string          `json:"curator"`
	CreatedAt       time.Time       `json:"createdAt"`
	Status          string          `json:"status"`
	StatusHistory   []StatusEvent   `json:"statusHistory"`
	Method          string          `json:"method"`
	Section         string          `json:"section"`
	Description     string          `json:"description"`
	Args            json.RawMessage `json:"args"`
	RequestedAmount string          `json:"requested"`
	Beneficiaries   []Beneficiary   `json:"beneficiaries"`
	Tally           *Tally          `json:"tally"`
	Group           []rawGroupRow   `json:"group"`
}

type rawGroupRow struct {
	Type          string        `json:"type"`
	Index         *uint64       `json:"index"`
	Hash          string        `json:"hash"`
	CreatedAt     time.Time     `json:"createdAt"`
	StatusHistory []StatusEvent `json:"statusHistory"`
}

// validate converts a raw row into the typed model, rejecting rows without a
// usable identity and dropping group members it cannot type.
func (r rawProposal) validate() (*Proposal, error) {
	t, err := gov.ParseProposalType(r.Type)
	if err != nil {
		return nil, err
	}
	if r.Index == nil && r.Hash == "" {
		return nil, fmt.Errorf("proposal %s has neither index nor hash", r.Type)
	}
	p := &Proposal{
		Type:            t,
		Index:           r.Index,
		Hash:            r.Hash,
		Proposer:        r.Proposer,
		Curator:         r.Curator,
		CreatedAt:       r.CreatedAt,
		Status:          r.Status,
		Events:          r.StatusHistory,
		Method:          r.Method,
		Section:         r.Section,
		Description:     r.Description,
		Args:            r.Args,
		RequestedAmount: r.RequestedAmount,
		Beneficiaries:   r.Beneficiaries,
		Tally:           r.Tally,
	}
	for _, g := range r.Group {
		gt, err := gov.ParseProposalType(g.Type)
		if err != nil {
			continue
		}
		if g.Index == nil && g.Hash == "" {
			continue
		}
		p.Group = append(p.Group, GroupMember{
			Type:      gt,
			Index:     g.Index,
			Hash:      g.Hash,
			CreatedAt: g.CreatedAt,
			Events:    g.StatusHistory,
		})
	}
	return p, nil
}
