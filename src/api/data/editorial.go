package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EditorialStore is the gorm-backed editorial document repository. Multi-id
// reads go through BatchLookup to respect the 30-value IN-query cap.
type EditorialStore struct {
	db *gorm.DB
}

func NewEditorialStore(db *gorm.DB) *EditorialStore {
	return &EditorialStore{db: db}
}

// Get returns the document for one proposal, or nil when none exists.
func (s *EditorialStore) Get(ctx context.Context, ref gov.ProposalRef) (*types.EditorialPost, error) {
	var post types.EditorialPost
	err := s.db.WithContext(ctx).Preload("Tags").
		Where("network = ? AND proposal_type = ? AND index_or_hash = ? AND deleted = ?",
			ref.Network, ref.Type.String(), ref.ID, false).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("editorial get %s/%s/%s: %w", ref.Network, ref.Type, ref.ID, err)
	}
	return &post, nil
}

// GetMany fetches documents for many ids of one network+type, chunked.
// Ids with no document are absent from the result map.
func (s *EditorialStore) GetMany(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]*types.EditorialPost, error) {
	return BatchLookup(ctx, ids, func(ctx context.Context, chunk []string) (map[string]*types.EditorialPost, error) {
		var posts []types.EditorialPost
		err := s.db.WithContext(ctx).Preload("Tags").
			Where("network = ? AND proposal_type = ? AND index_or_hash IN ? AND deleted = ?",
				network, t.String(), chunk, false).
			Find(&posts).Error
		if err != nil {
			return nil, fmt.Errorf("editorial multi-get: %w", err)
		}
		out := make(map[string]*types.EditorialPost, len(posts))
		for i := range posts {
			out[posts[i].IndexOrHash] = &posts[i]
		}
		return out, nil
	})
}

// GetSiblings fetches the documents for every member of a proposal group.
// Members may span proposal types, so lookups group by type.
func (s *EditorialStore) GetSiblings(ctx context.Context, members []gov.ProposalRef) (map[gov.ProposalRef]*types.EditorialPost, error) {
	byType := make(map[gov.ProposalType][]string)
	network := ""
	for _, m := range members {
		byType[m.Type] = append(byType[m.Type], m.ID)
		network = m.Network
	}
	out := make(map[gov.ProposalRef]*types.EditorialPost, len(members))
	for t, ids := range byType {
		posts, err := s.GetMany(ctx, network, t, ids)
		if err != nil {
			return nil, err
		}
		for id, p := range posts {
			out[gov.ProposalRef{Network: network, Type: t, ID: id}] = p
		}
	}
	return out, nil
}

// SaveMerged persists the backfill's denormalized sibling copies in one
// transaction. Upserts never clobber columns outside the merged set; tag
// rows are written additively, so existing tags survive.
func (s *EditorialStore) SaveMerged(ctx context.Context, posts []types.EditorialPost) error {
	if len(posts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range posts {
			p := &posts[i]
			p.UpdatedAt = time.Now()
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "network"}, {Name: "proposal_type"}, {Name: "index_or_hash"},
				},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "content", "proposer_address", "topic_id",
					"user_id", "gov_type", "updated_at",
				}),
			}).Omit("Tags").Create(p).Error
			if err != nil {
				return fmt.Errorf("sibling write %s/%s/%s: %w", p.Network, p.ProposalType, p.IndexOrHash, err)
			}
			if err := saveTags(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// saveTags upserts the merged tag set for one sibling row. On conflict the
// upsert above does not report the row id, so it is re-read by identity.
func saveTags(tx *gorm.DB, p *types.EditorialPost) error {
	if len(p.Tags) == 0 {
		return nil
	}
	postID := p.ID
	if postID == 0 {
		var row types.EditorialPost
		err := tx.Select("id").
			Where("network = ? AND proposal_type = ? AND index_or_hash = ?",
				p.Network, p.ProposalType, p.IndexOrHash).
			First(&row).Error
		if err != nil {
			return fmt.Errorf("sibling id %s/%s/%s: %w", p.Network, p.ProposalType, p.IndexOrHash, err)
		}
		postID = row.ID
	}
	for _, tag := range p.Tags {
		rec := types.PostTag{PostID: postID, Name: tag.Name}
		err := tx.Where("post_id = ? AND name = ?", postID, tag.Name).FirstOrCreate(&rec).Error
		if err != nil {
			return fmt.Errorf("sibling tag %q: %w", tag.Name, err)
		}
	}
	return nil
}

// UpdateContent writes an author/moderator edit to one document.
func (s *EditorialStore) UpdateContent(ctx context.Context, ref gov.ProposalRef, title, content string, userID uint64) error {
	post := types.EditorialPost{
		Network:      ref.Network,
		ProposalType: ref.Type.String(),
		IndexOrHash:  ref.ID,
		Title:        title,
		Content:      content,
		UserID:       userID,
		DataSource:   "editorial",
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "network"}, {Name: "proposal_type"}, {Name: "index_or_hash"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "user_id", "data_source", "updated_at"}),
	}).Omit("Tags").Create(&post).Error
}

// ReactionCount aggregates thumbs for one content id.
type ReactionCount struct {
	Up   int64
	Down int64
}

// ReactionCounts returns per-id reaction tallies, chunked by id set.
func (s *EditorialStore) ReactionCounts(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]ReactionCount, error) {
	return BatchLookup(ctx, ids, func(ctx context.Context, chunk []string) (map[string]ReactionCount, error) {
		var rows []struct {
			IndexOrHash string
			Kind        string
			N           int64
		}
		err := s.db.WithContext(ctx).Model(&types.Reaction{}).
			Select("index_or_hash, kind, count(*) as n").
			Where("network = ? AND proposal_type = ? AND index_or_hash IN ?", network, t.String(), chunk).
			Group("index_or_hash, kind").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("reaction counts: %w", err)
		}
		out := make(map[string]ReactionCount)
		for _, r := range rows {
			rc := out[r.IndexOrHash]
			switch r.Kind {
			case "up":
				rc.Up = r.N
			case "down":
				rc.Down = r.N
			}
			out[r.IndexOrHash] = rc
		}
		return out, nil
	})
}

// CommentCounts returns per-id comment totals, chunked by id set.
func (s *EditorialStore) CommentCounts(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]int64, error) {
	return BatchLookup(ctx, ids, func(ctx context.Context, chunk []string) (map[string]int64, error) {
		var rows []struct {
			IndexOrHash string
			N           int64
		}
		err := s.db.WithContext(ctx).Model(&types.Comment{}).
			Select("index_or_hash, count(*) as n").
			Where("network = ? AND proposal_type = ? AND index_or_hash IN ? AND deleted = ?",
				network, t.String(), chunk, false).
			Group("index_or_hash").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("comment counts: %w", err)
		}
		out := make(map[string]int64, len(rows))
		for _, r := range rows {
			out[r.IndexOrHash] = r.N
		}
		return out, nil
	})
}

// Comments returns the full comment set for one proposal, oldest first.
// Replies are interleaved; the caller nests them by parent id.
func (s *EditorialStore) Comments(ctx context.Context, ref gov.ProposalRef) ([]types.Comment, error) {
	var comments []types.Comment
	err := s.db.WithContext(ctx).
		Where("network = ? AND proposal_type = ? AND index_or_hash = ? AND deleted = ?",
			ref.Network, ref.Type.String(), ref.ID, false).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("comments %s/%s/%s: %w", ref.Network, ref.Type, ref.ID, err)
	}
	return comments, nil
}

// Users batch-fetches user profiles by id.
func (s *EditorialStore) Users(ctx context.Context, ids []string) (map[string]types.User, error) {
	return BatchLookup(ctx, ids, func(ctx context.Context, chunk []string) (map[string]types.User, error) {
		var users []types.User
		if err := s.db.WithContext(ctx).Where("id IN ?", chunk).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("users: %w", err)
		}
		out := make(map[string]types.User, len(users))
		for _, u := range users {
			out[fmt.Sprintf("%d", u.ID)] = u
		}
		return out, nil
	})
}
