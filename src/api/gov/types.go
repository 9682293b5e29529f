package gov

import "fmt"

// ProposalType identifies one governance track kind. The zero value is invalid.
type ProposalType uint8

const (
	ProposalTypeUnknown ProposalType = iota
	DemocracyProposal
	TechCommitteeProposal
	TreasuryProposal
	Referendum
	CouncilMotion
	Bounty
	Tip
	ChildBounty
	ReferendumV2
	FellowshipReferendum
)

var proposalTypeNames = map[ProposalType]string{
	DemocracyProposal:     "democracy_proposals",
	TechCommitteeProposal: "tech_committee_proposals",
	TreasuryProposal:      "treasury_proposals",
	Referendum:            "referendums",
	CouncilMotion:         "council_motions",
	Bounty:                "bounties",
	Tip:                   "tips",
	ChildBounty:           "child_bounties",
	ReferendumV2:          "referendums_v2",
	FellowshipReferendum:  "fellowship_referendums",
}

var proposalTypeTitles = map[ProposalType]string{
	DemocracyProposal:     "Democracy Proposal",
	TechCommitteeProposal: "Tech Committee Proposal",
	TreasuryProposal:      "Treasury Proposal",
	Referendum:            "Referendum",
	CouncilMotion:         "Council Motion",
	Bounty:                "Bounty",
	Tip:                   "Tip",
	ChildBounty:           "Child Bounty",
	ReferendumV2:          "Referendum V2",
	FellowshipReferendum:  "Fellowship Referendum",
}

var proposalTypesByName = func() map[string]ProposalType {
	m := make(map[string]ProposalType, len(proposalTypeNames))
	for t, n := range proposalTypeNames {
		m[n] = t
	}
	return m
}()

// AllProposalTypes lists every supported type in declaration order.
func AllProposalTypes() []ProposalType {
	return []ProposalType{
		DemocracyProposal, TechCommitteeProposal, TreasuryProposal,
		Referendum, CouncilMotion, Bounty, Tip, ChildBounty,
		ReferendumV2, FellowshipReferendum,
	}
}

// ParseProposalType resolves the wire name ("referendums_v2") to a type.
func ParseProposalType(name string) (ProposalType, error) {
	if t, ok := proposalTypesByName[name]; ok {
		return t, nil
	}
	return ProposalTypeUnknown, fmt.Errorf("unknown proposal type %q", name)
}

func (t ProposalType) String() string {
	if n, ok := proposalTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Title returns the human form used in placeholder content ("Referendum V2").
func (t ProposalType) Title() string {
	if n, ok := proposalTypeTitles[t]; ok {
		return n
	}
	return "Proposal"
}

// HashIdentified reports whether on-chain identity is a hash (string id on the
// wire) rather than a numeric index.
func (t ProposalType) HashIdentified() bool {
	return t == Tip
}

// Valid reports whether t is one of the supported types.
func (t ProposalType) Valid() bool {
	_, ok := proposalTypeNames[t]
	return ok
}

// Lifecycle statuses as emitted by the indexer.
const (
	StatusCreated               = "Created"
	StatusSubmitted             = "Submitted"
	StatusDecisionDepositPlaced = "DecisionDepositPlaced"
	StatusDeciding              = "Deciding"
	StatusConfirmStarted        = "ConfirmStarted"
	StatusConfirmAborted        = "ConfirmAborted"
	StatusConfirmed             = "Confirmed"
	StatusApproved              = "Approved"
	StatusRejected              = "Rejected"
	StatusCancelled             = "Cancelled"
	StatusTimedOut              = "TimedOut"
	StatusKilled                = "Killed"
	StatusExecuted              = "Executed"
	StatusTabled                = "Tabled"
	StatusAwarded               = "Awarded"
	StatusClaimed               = "Claimed"
	StatusClosed                = "Closed"
)

var knownStatuses = map[string]struct{}{
	StatusCreated: {}, StatusSubmitted: {}, StatusDecisionDepositPlaced: {},
	StatusDeciding: {}, StatusConfirmStarted: {}, StatusConfirmAborted: {},
	StatusConfirmed: {}, StatusApproved: {}, StatusRejected: {},
	StatusCancelled: {}, StatusTimedOut: {}, StatusKilled: {},
	StatusExecuted: {}, StatusTabled: {}, StatusAwarded: {},
	StatusClaimed: {}, StatusClosed: {},
}

// KnownStatus reports whether s is a recognized lifecycle status.
func KnownStatus(s string) bool {
	_, ok := knownStatuses[s]
	return ok
}

// Network describes one supported chain.
type Network struct {
	Name       string
	Symbol     string
	SS58Prefix uint16
	// UsesDID marks chain families that identify accounts by DID instead of
	// an SS58 address (placeholder synthesis names the DID field).
	UsesDID bool
}

var networks = map[string]Network{
	"polkadot": {Name: "polkadot", Symbol: "DOT", SS58Prefix: 0},
	"kusama":   {Name: "kusama", Symbol: "KSM", SS58Prefix: 2},
	"polymesh": {Name: "polymesh", Symbol: "POLYX", SS58Prefix: 12, UsesDID: true},
	"moonbeam": {Name: "moonbeam", Symbol: "GLMR", SS58Prefix: 1284},
}

// LookupNetwork resolves a network by name.
func LookupNetwork(name string) (Network, bool) {
	n, ok := networks[name]
	return n, ok
}

// ValidNetwork reports whether name is a supported network.
func ValidNetwork(name string) bool {
	_, ok := networks[name]
	return ok
}
