// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

func newCachedService(t *testing.T) (*book.Service, *memoryBooks, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := newMemoryBooks()
	cached := book.NewCachedRepository(inner, client, time.Minute)
	return book.NewService(cached, placeholder), inner, server
}

func TestCachedRepository_ServesRepeatReadsFromRedis(t *testing.T) {
	service, inner, server := newCachedService(t)
	ctx := context.Background()
	seed(t, service, 3)

	params := pagination.Params{Page: 1, Limit: 2}
	first, meta, err := service.ListPage(ctx, book.Filter{}, params)
	require.NoError(t, err)
	second, _, err := service.ListPage(ctx, book.Filter{}, params)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls["ListPage"])
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].Title, second[1].Title)
	assert.Equal(t, 3, meta.TotalItems)

	_, err = service.ListAll(ctx)
	require.NoError(t, err)
	_, err = service.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls["ListAll"])

	assert.NotEmpty(t, server.Keys())
}

func TestCachedRepository_MutationsInvalidate(t *testing.T) {
	service, inner, server := newCachedService(t)
	ctx := context.Background()
	created := seed(t, service, 2)

	params := pagination.Params{Page: 1, Limit: 10}
	_, meta, err := service.ListPage(ctx, book.Filter{}, params)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.TotalItems)

	require.NoError(t, service.Delete(ctx, created[0].ID))

	_, meta, err = service.ListPage(ctx, book.Filter{}, params)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.TotalItems, "a deleted book must not be served from cache")
	assert.Equal(t, 2, inner.calls["ListPage"])

	version, err := server.Get("catalog:books:version")
	require.NoError(t, err)
	assert.Equal(t, "3", version, "two creates and one delete")
}

func TestCachedRepository_FailedMutationKeepsVersion(t *testing.T) {
	service, _, server := newCachedService(t)

	err := service.Delete(context.Background(), "0190f3e4-7c1a-7b2e-9f00-1234567890ab")
	require.Error(t, err)
	assert.False(t, server.Exists("catalog:books:version"))
}

func TestCachedRepository_DegradesWhenRedisIsDown(t *testing.T) {
	service, inner, server := newCachedService(t)
	ctx := context.Background()
	seed(t, service, 2)

	server.Close()

	listings, meta, err := service.ListPage(ctx, book.Filter{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Equal(t, 2, meta.TotalItems)

	_, err = service.Create(ctx, book.Input{Title: "Emma", Description: validDescription, Author: "Jane Austen"})
	require.NoError(t, err)
	assert.Equal(t, 3, inner.size())
}
