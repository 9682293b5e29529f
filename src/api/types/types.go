package types

import "time"

// Networks
type Network struct {
	ID         uint8  `gorm:"primaryKey"`
	Name       string `gorm:"size:32;unique;not null"`
	Symbol     string `gorm:"size:8;not null"`
	URL        string `gorm:"size:256"`
	SS58Prefix uint16 `gorm:"default:0"`
}

// Forum users (authors, moderators, reporters)
type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"size:64;uniqueIndex;not null"`
	Address   string `gorm:"size:128;index"`
	Email     string `gorm:"size:256"`
	Moderator bool   `gorm:"default:false"`
	CreatedAt time.Time
}

// Editorial documents: human-authored title/content/moderation metadata for a
// proposal identified by (network, proposal_type, index_or_hash). Created
// lazily on first write, soft-deleted only.
type EditorialPost struct {
	ID                  uint64 `gorm:"primaryKey"`
	Network             string `gorm:"size:32;not null;uniqueIndex:idx_post_identity,priority:1"`
	ProposalType        string `gorm:"size:40;not null;uniqueIndex:idx_post_identity,priority:2"`
	IndexOrHash         string `gorm:"size:128;not null;uniqueIndex:idx_post_identity,priority:3"`
	Title               string `gorm:"size:255"`
	Content             string `gorm:"type:text"`
	Summary             string `gorm:"type:text"`
	TopicID             uint16 `gorm:"default:0"`
	UserID              uint64 `gorm:"index;default:0"`
	ProposerAddress     string `gorm:"size:128"`
	GovType             string `gorm:"size:32"`
	IsSpam              bool   `gorm:"default:false"`
	IsSpamReportInvalid bool   `gorm:"default:false"`
	SpamReportCount     uint32 `gorm:"default:0"`
	DataSource          string `gorm:"size:16"`
	Deleted             bool   `gorm:"default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Tags                []PostTag `gorm:"foreignKey:PostID"`
}

// Tags attached to editorial documents
type PostTag struct {
	ID     uint64 `gorm:"primaryKey"`
	PostID uint64 `gorm:"index;not null"`
	Name   string `gorm:"size:64;not null"`
}

// Spam reports: one per (reporter, content, type); resubmission overwrites.
type SpamReport struct {
	ID           uint64 `gorm:"primaryKey"`
	Network      string `gorm:"size:32;not null"`
	ContentType  string `gorm:"size:16;not null;uniqueIndex:idx_report_identity,priority:1"` // post|comment|reply
	ContentID    string `gorm:"size:128;not null;uniqueIndex:idx_report_identity,priority:2"`
	ProposalType string `gorm:"size:40;not null;uniqueIndex:idx_report_identity,priority:3"`
	ReporterID   uint64 `gorm:"not null;uniqueIndex:idx_report_identity,priority:4"`
	Reason       string `gorm:"type:text"`
	Resolved     bool   `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Per-content reactions (thumbs up/down)
type Reaction struct {
	ID           uint64 `gorm:"primaryKey"`
	Network      string `gorm:"size:32;not null;index:idx_reaction_content,priority:1"`
	ProposalType string `gorm:"size:40;not null;index:idx_reaction_content,priority:2"`
	IndexOrHash  string `gorm:"size:128;not null;index:idx_reaction_content,priority:3"`
	UserID       uint64 `gorm:"not null"`
	Kind         string `gorm:"size:8;not null"` // up|down
	CreatedAt    time.Time
}

// Comments (replies carry a parent id)
type Comment struct {
	ID           uint64  `gorm:"primaryKey"`
	Network      string  `gorm:"size:32;not null;index:idx_comment_content,priority:1"`
	ProposalType string  `gorm:"size:40;not null;index:idx_comment_content,priority:2"`
	IndexOrHash  string  `gorm:"size:128;not null;index:idx_comment_content,priority:3"`
	ParentID     *uint64 `gorm:"index"`
	UserID       uint64  `gorm:"index;not null"`
	Body         string  `gorm:"type:text;not null"`
	Deleted      bool    `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Email subscriptions per editorial document
type Subscription struct {
	ID     uint64 `gorm:"primaryKey"`
	PostID uint64 `gorm:"index;not null"`
	UserID uint64 `gorm:"index"`
	Email  string `gorm:"size:256;not null"`
}

// Operational settings stored in the database
type Setting struct {
	ID     uint8  `gorm:"primaryKey"`
	Name   string `gorm:"size:32;not null"`
	Value  string `gorm:"type:text;not null"`
	Active uint8  `gorm:"not null"`
}
