package engine

import (
	"context"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/data"
	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
	"github.com/stake-plus/polkadot-gov-forum/src/api/mirror"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
)

// EditorialStore is the mutable document store for human-authored metadata.
// Implemented by data.EditorialStore.
type EditorialStore interface {
	Get(ctx context.Context, ref gov.ProposalRef) (*types.EditorialPost, error)
	GetMany(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]*types.EditorialPost, error)
	GetSiblings(ctx context.Context, members []gov.ProposalRef) (map[gov.ProposalRef]*types.EditorialPost, error)
	SaveMerged(ctx context.Context, posts []types.EditorialPost) error
	UpdateContent(ctx context.Context, ref gov.ProposalRef, title, content string, userID uint64) error
	ReactionCounts(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]data.ReactionCount, error)
	CommentCounts(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]int64, error)
	Comments(ctx context.Context, ref gov.ProposalRef) ([]types.Comment, error)
	Users(ctx context.Context, ids []string) (map[string]types.User, error)
}

// ReportStore persists spam reports. Implemented by data.ReportStore.
type ReportStore interface {
	Upsert(ctx context.Context, r *types.SpamReport) error
	Count(ctx context.Context, contentType, contentID, proposalType string) (uint32, error)
	Counts(ctx context.Context, contentType, proposalType string, contentIDs []string) (map[string]uint32, error)
	FlagPost(ctx context.Context, network, proposalType, indexOrHash string, count uint32) error
}

// Indexer is the append-only on-chain event source. Implemented by
// indexer.Client. Failures are always recoverable via a fallback path.
type Indexer interface {
	ListProposals(ctx context.Context, network string, t gov.ProposalType, page, pageSize int, sortBy string, statuses []string) ([]*indexer.Proposal, int, error)
	GetProposal(ctx context.Context, ref gov.ProposalRef) (*indexer.Proposal, error)
	ChildBounties(ctx context.Context, network string, parentIndex uint64) ([]*indexer.Proposal, error)
	Votes(ctx context.Context, ref gov.ProposalRef) ([]indexer.Vote, error)
	VoterHistory(ctx context.Context, network, voter string, limit int) ([]indexer.Vote, error)
}

// Mirror is the best-effort external content source. Implemented by
// mirror.Client.
type Mirror interface {
	Fetch(ctx context.Context, t gov.ProposalType, network, id string) (mirror.Content, bool)
	List(ctx context.Context, t gov.ProposalType, network string, page, pageSize int) ([]mirror.ListItem, bool)
}

// SuppressionStore guards the one-shot spam flag side effects. Implemented
// by data.CacheStore.
type SuppressionStore interface {
	MarkSpamFlagged(ctx context.Context, contentID string, ttl time.Duration) (bool, error)
}

// Notifier dispatches fire-and-forget alerts. Implemented by
// notify.Dispatcher.
type Notifier interface {
	SpamDetected(ctx context.Context, network, proposalType, contentID string, count uint32) error
}
