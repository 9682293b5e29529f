package data

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchLookupChunking(t *testing.T) {
	ids := make([]string, 65)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%02d", i)
	}

	var (
		mu         sync.Mutex
		chunkSizes []int
	)
	fetch := func(ctx context.Context, chunk []string) (map[string]int, error) {
		mu.Lock()
		chunkSizes = append(chunkSizes, len(chunk))
		mu.Unlock()
		out := make(map[string]int, len(chunk))
		for i, id := range chunk {
			out[id] = i
		}
		return out, nil
	}

	merged, err := BatchLookup(context.Background(), ids, fetch)
	require.NoError(t, err)

	sort.Ints(chunkSizes)
	assert.Equal(t, []int{5, 30, 30}, chunkSizes)
	assert.Len(t, merged, 65)
	for _, id := range ids {
		_, ok := merged[id]
		assert.True(t, ok, "missing %s", id)
	}
}

func TestBatchLookupDeduplicates(t *testing.T) {
	calls := 0
	var total int
	fetch := func(ctx context.Context, chunk []string) (map[string]bool, error) {
		calls++
		total += len(chunk)
		out := make(map[string]bool)
		for _, id := range chunk {
			out[id] = true
		}
		return out, nil
	}

	merged, err := BatchLookupN(context.Background(), []string{"a", "b", "a", "c", "b"}, 30, 1, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, total)
	assert.Len(t, merged, 3)
}

func TestBatchLookupEmpty(t *testing.T) {
	merged, err := BatchLookup(context.Background(), nil, func(ctx context.Context, chunk []string) (map[string]int, error) {
		t.Fatal("fetch must not run for an empty id set")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, merged)
}

func TestBatchLookupPropagatesErrors(t *testing.T) {
	fetchErr := errors.New("store down")
	_, err := BatchLookupN(context.Background(), []string{"a", "b"}, 1, 1, func(ctx context.Context, chunk []string) (map[string]int, error) {
		return nil, fetchErr
	})
	assert.ErrorIs(t, err, fetchErr)
}
