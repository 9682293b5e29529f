package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/data"
	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
	"github.com/stake-plus/polkadot-gov-forum/src/api/mirror"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
)

// In-memory stand-ins for the engine's collaborators.

type fakeEditorial struct {
	mu        sync.Mutex
	posts     map[gov.ProposalRef]*types.EditorialPost
	reactions map[string]data.ReactionCount
	comments  map[gov.ProposalRef][]types.Comment
	users     map[string]types.User
	saveCalls int
	failReads bool
}

func newFakeEditorial() *fakeEditorial {
	return &fakeEditorial{
		posts:     make(map[gov.ProposalRef]*types.EditorialPost),
		reactions: make(map[string]data.ReactionCount),
		comments:  make(map[gov.ProposalRef][]types.Comment),
		users:     make(map[string]types.User),
	}
}

func (f *fakeEditorial) put(ref gov.ProposalRef, post *types.EditorialPost) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.Network = ref.Network
	post.ProposalType = ref.Type.String()
	post.IndexOrHash = ref.ID
	f.posts[ref] = post
}

func (f *fakeEditorial) get(ref gov.ProposalRef) *types.EditorialPost {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[ref]
}

func (f *fakeEditorial) Get(ctx context.Context, ref gov.ProposalRef) (*types.EditorialPost, error) {
	if f.failReads {
		return nil, errors.New("store down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts[ref], nil
}

func (f *fakeEditorial) GetMany(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]*types.EditorialPost, error) {
	if f.failReads {
		return nil, errors.New("store down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]*types.EditorialPost)
	for _, id := range ids {
		if p, ok := f.posts[gov.ProposalRef{Network: network, Type: t, ID: id}]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeEditorial) GetSiblings(ctx context.Context, members []gov.ProposalRef) (map[gov.ProposalRef]*types.EditorialPost, error) {
	if f.failReads {
		return nil, errors.New("store down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[gov.ProposalRef]*types.EditorialPost)
	for _, m := range members {
		if p, ok := f.posts[m]; ok {
			out[m] = p
		}
	}
	return out, nil
}

func (f *fakeEditorial) SaveMerged(ctx context.Context, posts []types.EditorialPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	for i := range posts {
		p := posts[i]
		t, err := gov.ParseProposalType(p.ProposalType)
		if err != nil {
			return err
		}
		ref := gov.ProposalRef{Network: p.Network, Type: t, ID: p.IndexOrHash}
		if existing, ok := f.posts[ref]; ok {
			existing.Title = p.Title
			existing.Content = p.Content
			existing.ProposerAddress = p.ProposerAddress
			existing.TopicID = p.TopicID
			existing.GovType = p.GovType
			for _, tag := range p.Tags {
				dup := false
				for _, have := range existing.Tags {
					if have.Name == tag.Name {
						dup = true
						break
					}
				}
				if !dup {
					existing.Tags = append(existing.Tags, types.PostTag{Name: tag.Name})
				}
			}
			continue
		}
		f.posts[ref] = &p
	}
	return nil
}

func (f *fakeEditorial) UpdateContent(ctx context.Context, ref gov.ProposalRef, title, content string, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.posts[ref]; ok {
		existing.Title = title
		existing.Content = content
		existing.UserID = userID
		return nil
	}
	f.posts[ref] = &types.EditorialPost{
		Network:      ref.Network,
		ProposalType: ref.Type.String(),
		IndexOrHash:  ref.ID,
		Title:        title,
		Content:      content,
		UserID:       userID,
	}
	return nil
}

func (f *fakeEditorial) ReactionCounts(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]data.ReactionCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]data.ReactionCount)
	for _, id := range ids {
		if c, ok := f.reactions[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeEditorial) CommentCounts(ctx context.Context, network string, t gov.ProposalType, ids []string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int64)
	for _, id := range ids {
		ref := gov.ProposalRef{Network: network, Type: t, ID: id}
		if n := len(f.comments[ref]); n > 0 {
			out[id] = int64(n)
		}
	}
	return out, nil
}

func (f *fakeEditorial) Comments(ctx context.Context, ref gov.ProposalRef) ([]types.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.comments[ref], nil
}

func (f *fakeEditorial) Users(ctx context.Context, ids []string) (map[string]types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]types.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeReports struct {
	mu        sync.Mutex
	reports   map[string]*types.SpamReport
	flagCalls []string
}

func newFakeReports() *fakeReports {
	return &fakeReports{reports: make(map[string]*types.SpamReport)}
}

func reportKey(r *types.SpamReport) string {
	return fmt.Sprintf("%s|%s|%s|%d", r.ContentType, r.ContentID, r.ProposalType, r.ReporterID)
}

func (f *fakeReports) Upsert(ctx context.Context, r *types.SpamReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[reportKey(r)] = r
	return nil
}

func (f *fakeReports) Count(ctx context.Context, contentType, contentID, proposalType string) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n uint32
	for _, r := range f.reports {
		if r.ContentType == contentType && r.ContentID == contentID && r.ProposalType == proposalType {
			n++
		}
	}
	return n, nil
}

func (f *fakeReports) Counts(ctx context.Context, contentType, proposalType string, contentIDs []string) (map[string]uint32, error) {
	out := make(map[string]uint32)
	for _, id := range contentIDs {
		n, _ := f.Count(ctx, contentType, id, proposalType)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (f *fakeReports) FlagPost(ctx context.Context, network, proposalType, indexOrHash string, count uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flagCalls = append(f.flagCalls, fmt.Sprintf("%s/%s/%s", network, proposalType, indexOrHash))
	return nil
}

type fakeIndexer struct {
	mu         sync.Mutex
	list       []*indexer.Proposal
	total      int
	single     map[gov.ProposalRef]*indexer.Proposal
	children   map[uint64][]*indexer.Proposal
	votes      map[gov.ProposalRef][]indexer.Vote
	history    map[string][]indexer.Vote
	listCalls  int
	failList   bool
	failSingle bool
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{
		single:   make(map[gov.ProposalRef]*indexer.Proposal),
		children: make(map[uint64][]*indexer.Proposal),
		votes:    make(map[gov.ProposalRef][]indexer.Vote),
		history:  make(map[string][]indexer.Vote),
	}
}

func (f *fakeIndexer) ListProposals(ctx context.Context, network string, t gov.ProposalType, page, pageSize int, sortBy string, statuses []string) ([]*indexer.Proposal, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return nil, 0, errors.New("indexer down")
	}
	return f.list, f.total, nil
}

func (f *fakeIndexer) GetProposal(ctx context.Context, ref gov.ProposalRef) (*indexer.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSingle {
		return nil, errors.New("indexer down")
	}
	return f.single[ref], nil
}

func (f *fakeIndexer) ChildBounties(ctx context.Context, network string, parentIndex uint64) ([]*indexer.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.children[parentIndex], nil
}

func (f *fakeIndexer) Votes(ctx context.Context, ref gov.ProposalRef) ([]indexer.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.votes[ref], nil
}

func (f *fakeIndexer) VoterHistory(ctx context.Context, network, voter string, limit int) ([]indexer.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[voter], nil
}

type fakeMirror struct {
	mu      sync.Mutex
	content map[string]mirror.Content
	items   []mirror.ListItem
	listOK  bool
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{content: make(map[string]mirror.Content)}
}

func mirrorKey(t gov.ProposalType, network, id string) string {
	return fmt.Sprintf("%s/%s/%s", network, t, id)
}

func (f *fakeMirror) Fetch(ctx context.Context, t gov.ProposalType, network, id string) (mirror.Content, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.content[mirrorKey(t, network, id)]
	return c, ok
}

func (f *fakeMirror) List(ctx context.Context, t gov.ProposalType, network string, page, pageSize int) ([]mirror.ListItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.listOK
}

// fakeCache backs both the response cache and the suppression markers.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	markers map[string]struct{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string), markers: make(map[string]struct{})}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			delete(f.entries, k)
		}
	}
	return nil
}

func (f *fakeCache) MarkSpamFlagged(ctx context.Context, contentID string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.markers[contentID]; ok {
		return false, nil
	}
	f.markers[contentID] = struct{}{}
	return true, nil
}

func (f *fakeCache) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) SpamDetected(ctx context.Context, network, proposalType, contentID string, count uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, fmt.Sprintf("%s/%s/%s=%d", network, proposalType, contentID, count))
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// testWorld wires one orchestrator over fresh fakes.
type testWorld struct {
	store    *fakeEditorial
	reports  *fakeReports
	idx      *fakeIndexer
	mirror   *fakeMirror
	cache    *fakeCache
	notifier *fakeNotifier
	orch     *Orchestrator
}

func newTestWorld(cfg Config) *testWorld {
	w := &testWorld{
		store:    newFakeEditorial(),
		reports:  newFakeReports(),
		idx:      newFakeIndexer(),
		mirror:   newFakeMirror(),
		cache:    newFakeCache(),
		notifier: &fakeNotifier{},
	}
	w.orch = New(cfg, w.store, w.reports, w.idx, w.mirror, w.cache, w.cache, w.notifier)
	return w
}
