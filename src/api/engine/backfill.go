package engine

import (
	"context"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
)

// mergedRecord accumulates the best field values across a proposal group.
type mergedRecord struct {
	Title     string
	Content   string
	Proposer  string
	CreatedAt time.Time
	TopicID   uint16
	UserID    uint64
	GovType   string
	Tags      []string
}

// needsBackfill reports whether the current document is missing or still the
// synthesized placeholder.
func needsBackfill(t gov.ProposalType, post *types.EditorialPost) bool {
	if post == nil {
		return true
	}
	return gov.EffectiveContent(t, post.Content) == "" || post.Title == ""
}

// backfill runs the convergence pass for one proposal and its group: fetch
// every sibling's document in one batched round-trip, fold the best fields
// in stage order, and persist a denormalized copy back to every sibling that
// was missing data. The persist runs on the task pool; the merged record is
// returned to the caller regardless of its outcome. Repeated invocations
// converge to the same fixed point and later writes merge rather than
// clobber, so racing is safe.
func (o *Orchestrator) backfill(ctx context.Context, ref gov.ProposalRef, group []indexer.GroupMember) *mergedRecord {
	if len(group) < 2 {
		return nil
	}

	members := make([]gov.ProposalRef, 0, len(group))
	for _, m := range group {
		members = append(members, gov.ProposalRef{Network: ref.Network, Type: m.Type, ID: m.ID()})
	}

	posts, err := o.store.GetSiblings(ctx, members)
	if err != nil {
		// Read failure aborts the backfill, not the read path.
		return nil
	}

	// Fold in stage order: first non-empty wins. Placeholder equivalence
	// for each sibling's content uses that sibling's own proposal type.
	merged := &mergedRecord{}
	for i, m := range group {
		post := posts[members[i]]
		if post == nil {
			if merged.CreatedAt.IsZero() || (!m.CreatedAt.IsZero() && m.CreatedAt.Before(merged.CreatedAt)) {
				merged.CreatedAt = m.CreatedAt
			}
			continue
		}
		if merged.Title == "" {
			merged.Title = post.Title
		}
		if merged.Content == "" {
			merged.Content = gov.EffectiveContent(m.Type, post.Content)
		}
		if merged.Proposer == "" {
			merged.Proposer = gov.ExtractProposer(nil, post.ProposerAddress, ref.Network)
		}
		if merged.CreatedAt.IsZero() || (!post.CreatedAt.IsZero() && post.CreatedAt.Before(merged.CreatedAt)) {
			merged.CreatedAt = post.CreatedAt
		}
		if merged.TopicID == 0 {
			merged.TopicID = post.TopicID
		}
		if merged.UserID == 0 {
			merged.UserID = post.UserID
		}
		if merged.GovType == "" {
			merged.GovType = post.GovType
		}
		for _, tag := range post.Tags {
			merged.Tags = appendUnique(merged.Tags, tag.Name)
		}
	}

	// Nothing usable anywhere in the group.
	if merged.Title == "" && merged.Content == "" {
		return nil
	}
	// Incomplete merges are surfaced for display but never persisted.
	if merged.Title == "" || merged.Content == "" {
		return merged
	}

	mergedTags := make([]types.PostTag, 0, len(merged.Tags))
	for _, name := range merged.Tags {
		mergedTags = append(mergedTags, types.PostTag{Name: name})
	}

	updates := make([]types.EditorialPost, 0, len(members))
	for i, m := range members {
		id, ok := m.NormalizeID()
		if !ok {
			continue
		}
		existing := posts[m]

		copyPost := types.EditorialPost{
			Network:         m.Network,
			ProposalType:    m.Type.String(),
			IndexOrHash:     id,
			Title:           merged.Title,
			Content:         merged.Content,
			ProposerAddress: merged.Proposer,
			TopicID:         merged.TopicID,
			UserID:          merged.UserID,
			GovType:         merged.GovType,
			DataSource:      SourceEditorial,
			CreatedAt:       merged.CreatedAt,
			Tags:            mergedTags,
		}
		if existing != nil {
			if own := gov.EffectiveContent(group[i].Type, existing.Content); own != "" {
				copyPost.Content = own
			}
			if existing.Title != "" {
				copyPost.Title = existing.Title
			}
			if existing.UserID != 0 {
				copyPost.UserID = existing.UserID
			}
		}
		updates = append(updates, copyPost)
	}

	if len(updates) > 0 {
		o.tasks.Submit("backfill persist", func(ctx context.Context) error {
			return o.store.SaveMerged(ctx, updates)
		})
	}
	return merged
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
