// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/pkg/fold"
)

// CachedRepository is a read-through Redis cache in front of a [Repository].
//
// # Invalidation
//
// Cached listings are keyed by a catalog version number. Every successful
// mutation increments the version, so stale entries are never read again and
// simply age out through their TTL.
//
// # Degradation
//
// Redis failures are logged and the call falls through to the wrapped
// repository. A cache outage never fails a request.
type CachedRepository struct {
	next   Repository
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCachedRepository wraps next with a listing cache.
func NewCachedRepository(next Repository, client redis.UniversalClient, ttl time.Duration) *CachedRepository {
	return &CachedRepository{next: next, client: client, ttl: ttl}
}

type cachedPage struct {
	Books []*Book `json:"books"`
	Total int     `json:"total"`
}

// ListPage serves a page from the cache, filling it from the database on a miss.
func (repository *CachedRepository) ListPage(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	version, ok := repository.version(context)
	if !ok {
		return repository.next.ListPage(context, filter, limit, offset)
	}

	key := fmt.Sprintf("%sv%d:page:%d:%d:%s", constants.RedisPrefixBookList, version, limit, offset, fold.String(filter.Query))

	var page cachedPage
	if repository.get(context, key, &page) {
		return page.Books, page.Total, nil
	}

	books, total, err := repository.next.ListPage(context, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	repository.set(context, key, cachedPage{Books: books, Total: total})
	return books, total, nil
}

// ListAll serves the full listing from the cache, filling it on a miss.
func (repository *CachedRepository) ListAll(context context.Context) ([]*Book, error) {
	version, ok := repository.version(context)
	if !ok {
		return repository.next.ListAll(context)
	}

	key := fmt.Sprintf("%sv%d:all", constants.RedisPrefixBookList, version)

	var books []*Book
	if repository.get(context, key, &books) {
		return books, nil
	}

	books, err := repository.next.ListAll(context)
	if err != nil {
		return nil, err
	}

	repository.set(context, key, books)
	return books, nil
}

// FindByID is not cached.
func (repository *CachedRepository) FindByID(context context.Context, id string) (*Book, error) {
	return repository.next.FindByID(context, id)
}

// Create inserts through the wrapped repository and bumps the catalog version.
func (repository *CachedRepository) Create(context context.Context, book *Book) error {
	if err := repository.next.Create(context, book); err != nil {
		return err
	}
	repository.invalidate(context)
	return nil
}

// Update writes through the wrapped repository and bumps the catalog version.
func (repository *CachedRepository) Update(context context.Context, book *Book) error {
	if err := repository.next.Update(context, book); err != nil {
		return err
	}
	repository.invalidate(context)
	return nil
}

// Delete removes through the wrapped repository and bumps the catalog version.
func (repository *CachedRepository) Delete(context context.Context, id string) error {
	if err := repository.next.Delete(context, id); err != nil {
		return err
	}
	repository.invalidate(context)
	return nil
}

// # Cache Helpers

// version returns the current catalog version. A missing key reads as 0.
func (repository *CachedRepository) version(context context.Context) (int64, bool) {
	raw, err := repository.client.Get(context, constants.RedisKeyBookVersion).Result()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		repository.warn(context, "book_cache_version_failed", err)
		return 0, false
	}

	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		repository.warn(context, "book_cache_version_corrupt", err)
		return 0, false
	}
	return version, true
}

func (repository *CachedRepository) get(context context.Context, key string, target any) bool {
	payload, err := repository.client.Get(context, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		repository.warn(context, "book_cache_get_failed", err)
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		repository.warn(context, "book_cache_decode_failed", err)
		return false
	}
	return true
}

func (repository *CachedRepository) set(context context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		repository.warn(context, "book_cache_encode_failed", err)
		return
	}

	if err := repository.client.Set(context, key, payload, repository.ttl).Err(); err != nil {
		repository.warn(context, "book_cache_set_failed", err)
	}
}

func (repository *CachedRepository) invalidate(context context.Context) {
	if err := repository.client.Incr(context, constants.RedisKeyBookVersion).Err(); err != nil {
		repository.warn(context, "book_cache_invalidate_failed", err)
	}
}

func (repository *CachedRepository) warn(context context.Context, message string, err error) {
	ctxutil.GetLogger(context).WarnContext(context, message, slog.String("error", err.Error()))
}
