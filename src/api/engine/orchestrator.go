package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/data"
	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
	"golang.org/x/sync/errgroup"
)

// Config carries the engine's injected feature flags and limits.
type Config struct {
	PageSize      int
	SpamThreshold uint32
	CacheEnabled  bool
	CacheTTL      time.Duration
	WorkerPool    int
}

// Orchestrator is the per-request coordinator that unifies the indexer, the
// editorial store and the content mirror into one coherent view.
type Orchestrator struct {
	cfg         Config
	store       EditorialStore
	reports     ReportStore
	idx         Indexer
	mirror      Mirror
	cache       *ResponseCache
	suppression SuppressionStore
	notifier    Notifier
	scorer      SpamScorer
	tasks       *TaskPool
}

func New(cfg Config, store EditorialStore, reports ReportStore, idx Indexer, mir Mirror,
	cacheStore CacheStore, suppression SuppressionStore, notifier Notifier) *Orchestrator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	if cfg.SpamThreshold == 0 {
		cfg.SpamThreshold = 50
	}
	return &Orchestrator{
		cfg:         cfg,
		store:       store,
		reports:     reports,
		idx:         idx,
		mirror:      mir,
		cache:       NewResponseCache(cacheStore, cfg.CacheEnabled, cfg.CacheTTL),
		suppression: suppression,
		notifier:    notifier,
		scorer:      SpamScorer{Threshold: cfg.SpamThreshold},
		tasks:       NewTaskPool(cfg.WorkerPool),
	}
}

// Tasks exposes the background pool for shutdown draining and tests.
func (o *Orchestrator) Tasks() *TaskPool {
	return o.tasks
}

// ReactionSummary is the per-item thumbs tally.
type ReactionSummary struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

// ChildRef is a child-bounty summary row on a bounty item.
type ChildRef struct {
	ID     interface{} `json:"id"`
	Status string      `json:"status"`
}

// CommentView is one comment with nested replies.
type CommentView struct {
	ID           uint64         `json:"id"`
	UserID       uint64         `json:"user_id"`
	Username     string         `json:"username,omitempty"`
	Body         string         `json:"body"`
	CreatedAt    time.Time      `json:"created_at"`
	ReportCount  uint32         `json:"report_count"`
	VoterHistory []indexer.Vote `json:"voter_history,omitempty"`
	Replies      []CommentView  `json:"replies,omitempty"`
}

// Item is one assembled proposal view. ID marshals as an integer for
// index-identified types and as a string for hash-identified ones.
type Item struct {
	Network         string                `json:"network"`
	ProposalType    string                `json:"proposal_type"`
	ID              interface{}           `json:"id"`
	Title           string                `json:"title"`
	Content         string                `json:"content,omitempty"`
	DataSource      string                `json:"data_source"`
	Proposer        string                `json:"proposer,omitempty"`
	Curator         string                `json:"curator,omitempty"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	Timeline        []TimelineEntry       `json:"timeline,omitempty"`
	Tags            []string              `json:"tags,omitempty"`
	TopicID         uint16                `json:"topic_id,omitempty"`
	RequestedAmount string                `json:"requested_amount,omitempty"`
	Beneficiaries   []indexer.Beneficiary `json:"beneficiaries,omitempty"`
	Reactions       ReactionSummary       `json:"reactions"`
	CommentCount    int64                 `json:"comment_count"`
	SpamReports     uint32                `json:"spam_reports_count"`
	Tally           *indexer.Tally        `json:"tally,omitempty"`
	Votes           []indexer.Vote        `json:"votes,omitempty"`
	ChildBounties   []ChildRef            `json:"child_bounties,omitempty"`
	Comments        []CommentView         `json:"comments,omitempty"`
}

// Listing is the paginated response.
type Listing struct {
	Count int     `json:"count"`
	Items []*Item `json:"items"`
}

// ListingRequest captures the semantic parameters of a listing call.
type ListingRequest struct {
	Network  string
	Type     gov.ProposalType
	Page     int
	SortBy   string
	Statuses []string
}

var validSortBy = map[string]struct{}{
	"newest": {}, "oldest": {}, "commented": {},
}

func (r *ListingRequest) validate() *Error {
	if !gov.ValidNetwork(r.Network) {
		return ValidationError(fmt.Sprintf("unknown network %q", r.Network))
	}
	if !r.Type.Valid() {
		return ValidationError("unknown proposal type")
	}
	if r.Page < 1 || r.Page > 10000 {
		return ValidationError("page out of range")
	}
	if r.SortBy == "" {
		r.SortBy = "newest"
	}
	if _, ok := validSortBy[r.SortBy]; !ok {
		return ValidationError(fmt.Sprintf("unknown sortBy %q", r.SortBy))
	}
	for _, s := range r.Statuses {
		if !gov.KnownStatus(s) {
			return ValidationError(fmt.Sprintf("unknown status %q", s))
		}
	}
	return nil
}

// wireID converts the canonical id string into its wire representation.
func wireID(ref gov.ProposalRef) interface{} {
	if n, ok := ref.NumericID(); ok {
		return n
	}
	return ref.ID
}

// GetListing assembles one page of proposals. Validation failures fail
// fast; per-item failures degrade that item only; whole-indexer failure
// falls back to the mirror's own index and finally to an empty page.
func (o *Orchestrator) GetListing(ctx context.Context, req ListingRequest) (*Listing, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	key := ListingKey(req.Network, req.Type, req.Page, req.SortBy, req.Statuses)
	if cached, ok := o.cache.Get(ctx, key); ok {
		var out Listing
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return &out, nil
		}
	}

	proposals, total, err := o.idx.ListProposals(ctx, req.Network, req.Type, req.Page, o.cfg.PageSize, req.SortBy, req.Statuses)
	if err != nil {
		log.Printf("orchestrator: indexer listing %s/%s: %v", req.Network, req.Type, err)
		return o.fallbackListing(ctx, req), nil
	}

	listing := o.assemblePage(ctx, req.Network, proposals, total)

	if enc, err := json.Marshal(listing); err == nil {
		o.cache.Set(ctx, key, string(enc))
	}
	return listing, nil
}

// assemblePage runs the per-item fan-out over a page of raw proposals.
func (o *Orchestrator) assemblePage(ctx context.Context, network string, proposals []*indexer.Proposal, total int) *Listing {
	ids := make([]string, 0, len(proposals))
	t := gov.ProposalTypeUnknown
	for _, p := range proposals {
		ids = append(ids, p.ID())
		t = p.Type
	}

	// One batched round-trip each for the page's editorial documents,
	// reaction tallies, comment counts and raw report counts. Failures
	// degrade to empty maps; the page still renders.
	posts, err := o.store.GetMany(ctx, network, t, ids)
	if err != nil {
		log.Printf("orchestrator: editorial multi-get: %v", err)
		posts = nil
	}
	reactions, err := o.store.ReactionCounts(ctx, network, t, ids)
	if err != nil {
		log.Printf("orchestrator: reaction counts: %v", err)
		reactions = nil
	}
	commentCounts, err := o.store.CommentCounts(ctx, network, t, ids)
	if err != nil {
		log.Printf("orchestrator: comment counts: %v", err)
		commentCounts = nil
	}
	reportCounts, err := o.reports.Counts(ctx, ReportTypePost, t.String(), ids)
	if err != nil {
		log.Printf("orchestrator: report counts: %v", err)
		reportCounts = nil
	}

	// Per-item fan-out, bounded by the page size, all-settled: an item's
	// failure yields a best-effort default, never aborts its siblings.
	items := make([]*Item, len(proposals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(proposals) + 1)
	for i, p := range proposals {
		i, p := i, p
		g.Go(func() error {
			ref := p.Ref(network)
			item := o.buildItem(gctx, ref, p, itemInputs{
				post:         posts[p.ID()],
				reactions:    reactions[p.ID()],
				commentCount: commentCounts[p.ID()],
				reportCount:  reportCounts[p.ID()],
			})
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return &Listing{Count: total, Items: out}
}

type itemInputs struct {
	post         *types.EditorialPost
	reactions    data.ReactionCount
	commentCount int64
	reportCount  uint32
}

// buildItem assembles one proposal view: timeline, resolved content
// (backfilling across the group when the editorial document is missing or
// placeholder), decoded amounts and the gated spam count.
func (o *Orchestrator) buildItem(ctx context.Context, ref gov.ProposalRef, p *indexer.Proposal, in itemInputs) *Item {
	timeline, swapped := BuildTimeline(p)

	content := o.resolveContent(ctx, ref, in.post, p)
	var merged *mergedRecord
	if content.Source != SourceEditorial && needsBackfill(ref.Type, in.post) {
		if merged = o.backfill(ctx, ref, p.Group); merged != nil {
			// Partial merges override only the fields they resolved.
			if merged.Title != "" {
				content.Title = merged.Title
			}
			if merged.Content != "" {
				content.Content = merged.Content
				content.Source = SourceEditorial
			}
		}
	}

	flags := ModerationFlags{}
	var tags []string
	topicID := uint16(0)
	if in.post != nil {
		flags = ModerationFlags{IsSpam: in.post.IsSpam, IsSpamReportInvalid: in.post.IsSpamReportInvalid}
		topicID = in.post.TopicID
		for _, tag := range in.post.Tags {
			tags = append(tags, tag.Name)
		}
	}
	if merged != nil {
		for _, name := range merged.Tags {
			tags = appendUnique(tags, name)
		}
	}

	item := &Item{
		Network:         ref.Network,
		ProposalType:    ref.Type.String(),
		ID:              wireID(ref),
		Title:           content.Title,
		Content:         content.Content,
		DataSource:      content.Source,
		Proposer:        gov.ReencodeAddress(p.Proposer, ref.Network),
		Curator:         gov.ReencodeAddress(p.Curator, ref.Network),
		Status:          DisplayStatus(p.Status, swapped),
		CreatedAt:       p.CreatedAt,
		Timeline:        timeline,
		Tags:            tags,
		TopicID:         topicID,
		RequestedAmount: TotalRequested(p),
		Beneficiaries:   p.Beneficiaries,
		Reactions:       ReactionSummary{Up: in.reactions.Up, Down: in.reactions.Down},
		CommentCount:    in.commentCount,
		SpamReports:     o.scorer.VisibleCount(flags, in.reportCount),
		Tally:           p.Tally,
	}

	// Bounties resolve their child rows with a secondary indexer call;
	// failure leaves the list empty.
	if ref.Type == gov.Bounty && p.Index != nil {
		if children, err := o.idx.ChildBounties(ctx, ref.Network, *p.Index); err == nil {
			for _, c := range children {
				item.ChildBounties = append(item.ChildBounties, ChildRef{
					ID:     wireID(c.Ref(ref.Network)),
					Status: c.Status,
				})
			}
		}
	}
	return item
}

// fallbackListing redrives a page from the mirror's own index when the
// primary indexer is down. The degraded payload carries fewer guaranteed
// fields and is never cached; a mirror miss yields an empty page, not an
// error.
func (o *Orchestrator) fallbackListing(ctx context.Context, req ListingRequest) *Listing {
	rows, ok := o.mirror.List(ctx, req.Type, req.Network, req.Page, o.cfg.PageSize)
	if !ok {
		return &Listing{Count: 0, Items: []*Item{}}
	}
	items := make([]*Item, 0, len(rows))
	for _, r := range rows {
		id := r.Hash
		var wire interface{} = r.Hash
		if r.Index != nil {
			id = fmt.Sprintf("%d", *r.Index)
			wire = *r.Index
		}
		if id == "" {
			continue
		}
		title := r.Title
		if title == "" {
			title = gov.SynthesizeTitle(req.Type)
		}
		items = append(items, &Item{
			Network:      req.Network,
			ProposalType: req.Type.String(),
			ID:           wire,
			Title:        title,
			Content:      r.Content,
			DataSource:   SourceMirror,
			Proposer:     gov.ReencodeAddress(r.Proposer, req.Network),
			Status:       r.Status,
			CreatedAt:    r.CreatedAt,
		})
	}
	return &Listing{Count: len(items), Items: items}
}

// SingleOptions control how much of a proposal the single-item call loads.
type SingleOptions struct {
	IncludeContent  bool
	IncludeComments bool
}

// GetSingle assembles one proposal in full.
func (o *Orchestrator) GetSingle(ctx context.Context, ref gov.ProposalRef, opts SingleOptions) (*Item, error) {
	if !gov.ValidNetwork(ref.Network) {
		return nil, ValidationError(fmt.Sprintf("unknown network %q", ref.Network))
	}
	if !ref.Type.Valid() {
		return nil, ValidationError("unknown proposal type")
	}
	id, ok := ref.NormalizeID()
	if !ok {
		return nil, ValidationError(fmt.Sprintf("bad proposal id %q", ref.ID))
	}
	ref.ID = id

	key := SingleKey(ref, opts.IncludeContent, opts.IncludeComments)
	if cached, ok := o.cache.Get(ctx, key); ok {
		var out Item
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return &out, nil
		}
	}

	p, err := o.idx.GetProposal(ctx, ref)
	if err != nil {
		log.Printf("orchestrator: indexer single %s/%s/%s: %v", ref.Network, ref.Type, ref.ID, err)
		if item := o.fallbackSingle(ctx, ref); item != nil {
			return item, nil
		}
		return nil, UpstreamError()
	}
	if p == nil {
		if item := o.fallbackSingle(ctx, ref); item != nil {
			return item, nil
		}
		return nil, NotFoundError("proposal not found in any source")
	}

	post, err := o.store.Get(ctx, ref)
	if err != nil {
		log.Printf("orchestrator: editorial get: %v", err)
		post = nil
	}

	var (
		reactions    data.ReactionCount
		commentCount int64
		reportCount  uint32
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if m, err := o.store.ReactionCounts(gctx, ref.Network, ref.Type, []string{ref.ID}); err == nil {
			reactions = m[ref.ID]
		}
		return nil
	})
	g.Go(func() error {
		if m, err := o.store.CommentCounts(gctx, ref.Network, ref.Type, []string{ref.ID}); err == nil {
			commentCount = m[ref.ID]
		}
		return nil
	})
	g.Go(func() error {
		if m, err := o.reports.Counts(gctx, ReportTypePost, ref.Type.String(), []string{ref.ID}); err == nil {
			reportCount = m[ref.ID]
		}
		return nil
	})
	_ = g.Wait()

	item := o.buildItem(ctx, ref, p, itemInputs{
		post:         post,
		reactions:    reactions,
		commentCount: commentCount,
		reportCount:  reportCount,
	})

	if !opts.IncludeContent {
		item.Content = ""
	}

	// Motion votes / tippers for the types that carry them.
	if indexer.NeedsVoteDetail(ref.Type) {
		if votes, err := o.idx.Votes(ctx, ref); err == nil {
			item.Votes = votes
		}
	}

	if opts.IncludeComments {
		item.Comments = o.loadComments(ctx, ref)
	}

	if enc, err := json.Marshal(item); err == nil {
		o.cache.Set(ctx, key, string(enc))
	}
	return item, nil
}

// fallbackSingle serves a degraded single item from the mirror. Never
// cached.
func (o *Orchestrator) fallbackSingle(ctx context.Context, ref gov.ProposalRef) *Item {
	mc, ok := o.mirror.Fetch(ctx, ref.Type, ref.Network, ref.ID)
	if !ok {
		return nil
	}
	title := mc.Title
	if title == "" {
		title = gov.SynthesizeTitle(ref.Type)
	}
	return &Item{
		Network:      ref.Network,
		ProposalType: ref.Type.String(),
		ID:           wireID(ref),
		Title:        title,
		Content:      mc.Content,
		DataSource:   SourceMirror,
	}
}

// loadComments fetches the proposal's comments with nested replies, batched
// report counts per comment id, author profiles, and the author's recent
// voting history for top-level comments. Everything here is best-effort.
func (o *Orchestrator) loadComments(ctx context.Context, ref gov.ProposalRef) []CommentView {
	comments, err := o.store.Comments(ctx, ref)
	if err != nil {
		log.Printf("orchestrator: comments %s/%s/%s: %v", ref.Network, ref.Type, ref.ID, err)
		return nil
	}
	if len(comments) == 0 {
		return nil
	}

	topIDs := make([]string, 0, len(comments))
	var replyIDs []string
	userIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			topIDs = append(topIDs, fmt.Sprintf("%d", c.ID))
		} else {
			replyIDs = append(replyIDs, fmt.Sprintf("%d", c.ID))
		}
		userIDs = append(userIDs, fmt.Sprintf("%d", c.UserID))
	}

	// Replies report under their own content type.
	reportCounts, err := o.reports.Counts(ctx, ReportTypeComment, ref.Type.String(), topIDs)
	if err != nil {
		reportCounts = nil
	}
	replyCounts, err := o.reports.Counts(ctx, ReportTypeReply, ref.Type.String(), replyIDs)
	if err != nil {
		replyCounts = nil
	}
	users, err := o.store.Users(ctx, userIDs)
	if err != nil {
		users = nil
	}

	views := make(map[uint64]*CommentView, len(comments))
	var roots []uint64
	childOf := make(map[uint64][]uint64)
	for _, c := range comments {
		counts := reportCounts
		if c.ParentID != nil {
			counts = replyCounts
		}
		v := &CommentView{
			ID:          c.ID,
			UserID:      c.UserID,
			Body:        c.Body,
			CreatedAt:   c.CreatedAt,
			ReportCount: counts[fmt.Sprintf("%d", c.ID)],
		}
		if u, ok := users[fmt.Sprintf("%d", c.UserID)]; ok {
			v.Username = u.Username
		}
		views[c.ID] = v
		if c.ParentID == nil {
			roots = append(roots, c.ID)
		} else {
			childOf[*c.ParentID] = append(childOf[*c.ParentID], c.ID)
		}
	}

	// Voter history per distinct top-level author.
	seenAuthors := make(map[string]struct{})
	for _, id := range roots {
		v := views[id]
		u, ok := users[fmt.Sprintf("%d", v.UserID)]
		if !ok || u.Address == "" {
			continue
		}
		if _, dup := seenAuthors[u.Address]; dup {
			continue
		}
		seenAuthors[u.Address] = struct{}{}
		if hist, err := o.idx.VoterHistory(ctx, ref.Network, u.Address, 5); err == nil {
			v.VoterHistory = hist
		}
	}

	var build func(id uint64) CommentView
	build = func(id uint64) CommentView {
		v := *views[id]
		for _, child := range childOf[id] {
			v.Replies = append(v.Replies, build(child))
		}
		return v
	}
	out := make([]CommentView, 0, len(roots))
	for _, id := range roots {
		out = append(out, build(id))
	}
	return out
}
