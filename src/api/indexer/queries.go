package indexer

import "github.com/stake-plus/polkadot-gov-forum/src/api/gov"

// GraphQL templates the indexer client issues. Every proposal type goes
// through the generic list/single templates; bounties and vote-carrying
// types get a follow-up query.

const listTemplate = `
query ($type: String!, $limit: Int!, $offset: Int!, $orderBy: String!, $statuses: [String!]) {
  proposals(type: $type, limit: $limit, offset: $offset, orderBy: $orderBy, status_in: $statuses) {
    type index hash proposer curator createdAt status
    statusHistory { status block timestamp }
    method section description args requested
    beneficiaries { address amount }
    group { type index hash createdAt statusHistory { status block timestamp } }
  }
  proposalsConnection(type: $type, status_in: $statuses) { totalCount }
}`

const singleTemplate = `
query ($type: String!, $index: Int, $hash: String) {
  proposal(type: $type, index: $index, hash: $hash) {
    type index hash proposer curator createdAt status
    statusHistory { status block timestamp }
    method section description args requested
    beneficiaries { address amount }
    tally { ayes nays support }
    group { type index hash createdAt statusHistory { status block timestamp } }
  }
}`

const childBountiesTemplate = `
query ($parent: Int!) {
  proposals(type: "child_bounties", parentBountyIndex: $parent) {
    type index hash proposer curator createdAt status
    statusHistory { status block timestamp }
    method section description args requested
    beneficiaries { address amount }
  }
}`

const votesTemplate = `
query ($type: String!, $index: Int, $hash: String) {
  votes(proposalType: $type, index: $index, hash: $hash) {
    voter decision balance
  }
}`

const voterHistoryTemplate = `
query ($voter: String!, $limit: Int!) {
  votes(voter: $voter, limit: $limit, orderBy: "block_DESC") {
    voter decision balance
  }
}`

// NeedsVoteDetail reports whether single-item requests for t resolve a
// per-voter breakdown (motion votes, tippers).
func NeedsVoteDetail(t gov.ProposalType) bool {
	switch t {
	case gov.CouncilMotion, gov.TechCommitteeProposal, gov.Tip:
		return true
	}
	return false
}
