/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"errors"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/graphql-go/graphql/language/ast"
)

// OperationCache caches documents that have been parsed and validated for a query to save the
// parsing and validation efforts.
type OperationCache interface {
	// Get looks up document for the given query.
	Get(query string) (document *ast.Document, ok bool)

	// Add adds a document that associated with the query to the cache.
	Add(query string, document *ast.Document)
}

// NopOperationCache disables caching.
type NopOperationCache struct{}

var _ OperationCache = NopOperationCache{}

// Get implements OperationCache. It always misses.
func (NopOperationCache) Get(query string) (*ast.Document, bool) {
	return nil, false
}

// Add implements OperationCache. It does nothing.
func (NopOperationCache) Add(query string, document *ast.Document) {}

// BoundedOperationCache holds up to a fixed number of documents. When it is full, admission and
// eviction are decided by ristretto's TinyLFU policy. It is safe for concurrent use. Writes are
// buffered, so a document may not be visible to Get immediately after Add.
type BoundedOperationCache struct {
	cache *ristretto.Cache[string, *ast.Document]
}

var _ OperationCache = (*BoundedOperationCache)(nil)

var errInvalidCacheSize = errors.New("operation cache must hold at least one entry")

// NewBoundedOperationCache creates a BoundedOperationCache holding at most maxEntries documents.
func NewBoundedOperationCache(maxEntries int64) (*BoundedOperationCache, error) {
	if maxEntries <= 0 {
		return nil, errInvalidCacheSize
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *ast.Document]{
		// Track frequency of 10x the number of items.
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &BoundedOperationCache{
		cache: cache,
	}, nil
}

// Get implements OperationCache.
func (c *BoundedOperationCache) Get(query string) (*ast.Document, bool) {
	return c.cache.Get(query)
}

// Add implements OperationCache. Every document costs one entry.
func (c *BoundedOperationCache) Add(query string, document *ast.Document) {
	c.cache.Set(query, document, 1)
}

// Close stops the background goroutines of the cache. The cache must not be used afterwards.
func (c *BoundedOperationCache) Close() {
	c.cache.Close()
}
