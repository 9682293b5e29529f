package data

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchChunkSize is the store's hard cap on "value in set" query size.
const BatchChunkSize = 30

// ChunkFetchFunc runs one chunked lookup and returns results keyed by id.
// Missing ids are simply absent from the map.
type ChunkFetchFunc[T any] func(ctx context.Context, ids []string) (map[string]T, error)

// BatchLookup splits ids into chunks of at most BatchChunkSize, runs one
// fetch per chunk (chunks in parallel, bounded), and merges the results into
// a single id-keyed map. Duplicate input ids collapse to one lookup.
func BatchLookup[T any](ctx context.Context, ids []string, fetch ChunkFetchFunc[T]) (map[string]T, error) {
	return BatchLookupN(ctx, ids, BatchChunkSize, 4, fetch)
}

// BatchLookupN is BatchLookup with explicit chunk size and parallelism.
func BatchLookupN[T any](ctx context.Context, ids []string, chunkSize, parallel int, fetch ChunkFetchFunc[T]) (map[string]T, error) {
	if chunkSize <= 0 {
		chunkSize = BatchChunkSize
	}
	if parallel <= 0 {
		parallel = 1
	}

	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return map[string]T{}, nil
	}

	var chunks [][]string
	for start := 0; start < len(uniq); start += chunkSize {
		end := start + chunkSize
		if end > len(uniq) {
			end = len(uniq)
		}
		chunks = append(chunks, uniq[start:end])
	}

	merged := make(map[string]T, len(uniq))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			part, err := fetch(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			for k, v := range part {
				merged[k] = v
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}
