package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
)

// Content types a report may target.
const (
	ReportTypePost    = "post"
	ReportTypeComment = "comment"
	ReportTypeReply   = "reply"
)

const suppressionTTL = 24 * time.Hour

// ModerationFlags are the moderator overrides carried on an editorial
// document.
type ModerationFlags struct {
	IsSpam              bool
	IsSpamReportInvalid bool
}

// SpamScorer applies the visibility threshold gate to raw report counts.
type SpamScorer struct {
	Threshold uint32
}

// VisibleCount computes the report count shown to users. Moderator-confirmed
// spam always reads as at-threshold; moderator-dismissed reports always read
// as zero; otherwise counts below the threshold are hidden so the visible
// number cannot be gamed upward one report at a time.
func (s SpamScorer) VisibleCount(flags ModerationFlags, raw uint32) uint32 {
	switch {
	case flags.IsSpam:
		return s.Threshold
	case flags.IsSpamReportInvalid:
		return 0
	case raw >= s.Threshold:
		return raw
	default:
		return 0
	}
}

// ReportRequest is one spam report submission.
type ReportRequest struct {
	Network      string
	ContentType  string // post|comment|reply
	ContentID    string
	ProposalType gov.ProposalType
	ReporterID   uint64
	Reason       string
}

// ReportResult is returned to the reporter.
type ReportResult struct {
	Message      string `json:"message"`
	VisibleCount uint32 `json:"visibleSpamCount"`
}

func (r ReportRequest) validate() *Error {
	if !gov.ValidNetwork(r.Network) {
		return ValidationError(fmt.Sprintf("unknown network %q", r.Network))
	}
	if !r.ProposalType.Valid() {
		return ValidationError("unknown proposal type")
	}
	switch r.ContentType {
	case ReportTypePost, ReportTypeComment, ReportTypeReply:
	default:
		return ValidationError(fmt.Sprintf("unknown report type %q", r.ContentType))
	}
	if r.ContentID == "" {
		return ValidationError("missing content id")
	}
	if r.ReporterID == 0 {
		return AuthorizationError("report requires an authenticated user")
	}
	return nil
}

// RecordReport upserts one spam report, recomputes the raw count, and on the
// first threshold crossing flips the content-level spam flag (posts only),
// dispatches a notification and invalidates cached pages. The suppression
// marker keeps the side effects from repeating on every later report.
func (o *Orchestrator) RecordReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	report := &types.SpamReport{
		Network:      req.Network,
		ContentType:  req.ContentType,
		ContentID:    req.ContentID,
		ProposalType: req.ProposalType.String(),
		ReporterID:   req.ReporterID,
		Reason:       req.Reason,
	}
	if err := o.reports.Upsert(ctx, report); err != nil {
		log.Printf("spam: report upsert %s/%s: %v", req.ContentType, req.ContentID, err)
		return nil, UpstreamError()
	}

	raw, err := o.reports.Count(ctx, req.ContentType, req.ContentID, req.ProposalType.String())
	if err != nil {
		log.Printf("spam: recount %s/%s: %v", req.ContentType, req.ContentID, err)
		return nil, UpstreamError()
	}

	flags := ModerationFlags{}
	ref := gov.ProposalRef{Network: req.Network, Type: req.ProposalType, ID: req.ContentID}
	if req.ContentType == ReportTypePost {
		if post, err := o.store.Get(ctx, ref); err == nil && post != nil {
			flags = ModerationFlags{IsSpam: post.IsSpam, IsSpamReportInvalid: post.IsSpamReportInvalid}
		}
	}

	if raw >= o.scorer.Threshold && !flags.IsSpamReportInvalid {
		o.onThresholdCrossed(ctx, req, raw)
	}

	return &ReportResult{
		Message:      "report recorded",
		VisibleCount: o.scorer.VisibleCount(flags, raw),
	}, nil
}

func (o *Orchestrator) onThresholdCrossed(ctx context.Context, req ReportRequest, raw uint32) {
	marker := fmt.Sprintf("%s:%s:%s:%s", req.Network, req.ProposalType, req.ContentType, req.ContentID)
	first, err := o.suppression.MarkSpamFlagged(ctx, marker, suppressionTTL)
	if err != nil {
		log.Printf("spam: suppression marker %s: %v", marker, err)
		return
	}
	if !first {
		return
	}

	if req.ContentType == ReportTypePost {
		if err := o.reports.FlagPost(ctx, req.Network, req.ProposalType.String(), req.ContentID, raw); err != nil {
			log.Printf("spam: flag post %s: %v", marker, err)
		}
	}

	network, proposalType, contentID, count := req.Network, req.ProposalType, req.ContentID, raw
	o.tasks.Submit("spam notify", func(ctx context.Context) error {
		return o.notifier.SpamDetected(ctx, network, proposalType.String(), contentID, count)
	})

	if err := o.cache.Invalidate(ctx, req.Network, req.ProposalType); err != nil {
		log.Printf("spam: cache invalidate %s: %v", marker, err)
	}
}
