package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
)

// CacheStore is the external cache the response cache runs on.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ListingKey derives the deterministic cache key for a listing request. The
// serialization is order-independent: filter slices are sorted before
// digesting, so semantically equal requests share a key regardless of query
// string order.
func ListingKey(network string, t gov.ProposalType, page int, sortBy string, statuses []string) string {
	sorted := append([]string(nil), statuses...)
	sort.Strings(sorted)
	canon := fmt.Sprintf("net=%s|type=%s|page=%d|sort=%s|status=%s",
		network, t, page, sortBy, strings.Join(sorted, ","))
	return fmt.Sprintf("%s:%s:list:%x", network, t, xxhash.ChecksumString64(canon))
}

// SingleKey derives the cache key for a single-item request.
func SingleKey(ref gov.ProposalRef, includeContent, includeComments bool) string {
	canon := fmt.Sprintf("net=%s|type=%s|id=%s|content=%t|comments=%t",
		ref.Network, ref.Type, ref.ID, includeContent, includeComments)
	return fmt.Sprintf("%s:%s:item:%x", ref.Network, ref.Type, xxhash.ChecksumString64(canon))
}

// ContentPattern matches every cached page that can embed the given
// network+type, for invalidation on state-changing events.
func ContentPattern(network string, t gov.ProposalType) string {
	return fmt.Sprintf("%s:%s:*", network, t)
}

// ResponseCache is a read/write-through layer over the cache store. Purely
// an optimization: with enabled=false every method is a no-op and responses
// are byte-for-byte what a fresh assembly produces.
type ResponseCache struct {
	store   CacheStore
	enabled bool
	ttl     time.Duration
}

func NewResponseCache(store CacheStore, enabled bool, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{store: store, enabled: enabled, ttl: ttl}
}

func (c *ResponseCache) Get(ctx context.Context, key string) (string, bool) {
	if !c.enabled || c.store == nil {
		return "", false
	}
	return c.store.Get(ctx, key)
}

func (c *ResponseCache) Set(ctx context.Context, key, value string) {
	if !c.enabled || c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
		// Cache writes are best-effort.
		return
	}
}

// Invalidate removes every cached page embedding the given network+type.
func (c *ResponseCache) Invalidate(ctx context.Context, network string, t gov.ProposalType) error {
	if c.store == nil {
		return nil
	}
	return c.store.DeleteByPattern(ctx, ContentPattern(network, t))
}
