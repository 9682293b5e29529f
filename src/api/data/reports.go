package data

import (
	"context"
	"fmt"

	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportStore persists spam reports. Reports are never deleted; resolution is
// a boolean on the row.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Upsert records a report, overwriting any prior report by the same reporter
// for the same content.
func (s *ReportStore) Upsert(ctx context.Context, r *types.SpamReport) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "content_type"}, {Name: "content_id"},
			{Name: "proposal_type"}, {Name: "reporter_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"reason", "network", "updated_at"}),
	}).Create(r).Error
	if err != nil {
		return fmt.Errorf("report upsert: %w", err)
	}
	return nil
}

// Count returns the raw report count for one content id.
func (s *ReportStore) Count(ctx context.Context, contentType, contentID, proposalType string) (uint32, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.SpamReport{}).
		Where("content_type = ? AND content_id = ? AND proposal_type = ?",
			contentType, contentID, proposalType).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("report count: %w", err)
	}
	return uint32(n), nil
}

// Counts batch-fetches raw report counts for many content ids of one type.
func (s *ReportStore) Counts(ctx context.Context, contentType, proposalType string, contentIDs []string) (map[string]uint32, error) {
	return BatchLookup(ctx, contentIDs, func(ctx context.Context, chunk []string) (map[string]uint32, error) {
		var rows []struct {
			ContentID string
			N         int64
		}
		err := s.db.WithContext(ctx).Model(&types.SpamReport{}).
			Select("content_id, count(*) as n").
			Where("content_type = ? AND proposal_type = ? AND content_id IN ?",
				contentType, proposalType, chunk).
			Group("content_id").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("report counts: %w", err)
		}
		out := make(map[string]uint32, len(rows))
		for _, r := range rows {
			out[r.ContentID] = uint32(r.N)
		}
		return out, nil
	})
}

// FlagPost flips the content-level spam flag and refreshes the cached count
// on the editorial document. Used on first threshold crossing for posts.
func (s *ReportStore) FlagPost(ctx context.Context, network, proposalType, indexOrHash string, count uint32) error {
	err := s.db.WithContext(ctx).Model(&types.EditorialPost{}).
		Where("network = ? AND proposal_type = ? AND index_or_hash = ?",
			network, proposalType, indexOrHash).
		Updates(map[string]interface{}{
			"is_spam":           true,
			"spam_report_count": count,
		}).Error
	if err != nil {
		return fmt.Errorf("flag post: %w", err)
	}
	return nil
}
