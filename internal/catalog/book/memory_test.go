// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/pkg/fold"
)

// memoryBooks is an in-memory Repository with the same ordering and
// not-found behavior as the PostgreSQL implementation.
type memoryBooks struct {
	mu    sync.Mutex
	books map[string]*book.Book
	calls map[string]int
}

func newMemoryBooks() *memoryBooks {
	return &memoryBooks{books: map[string]*book.Book{}, calls: map[string]int{}}
}

func (m *memoryBooks) sorted() []*book.Book {
	out := make([]*book.Book, 0, len(m.books))
	for _, b := range m.books {
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryBooks) ListPage(_ context.Context, filter book.Filter, limit, offset int) ([]*book.Book, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListPage"]++

	term := fold.String(filter.Query)
	matched := []*book.Book{}
	for _, b := range m.sorted() {
		if term == "" || strings.Contains(b.SearchKey, term) {
			matched = append(matched, b)
		}
	}

	if offset >= len(matched) {
		return []*book.Book{}, len(matched), nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], len(matched), nil
}

func (m *memoryBooks) ListAll(context.Context) ([]*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ListAll"]++
	return m.sorted(), nil
}

func (m *memoryBooks) FindByID(_ context.Context, id string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memoryBooks) Create(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *b
	m.books[b.ID] = &copied
	return nil
}

func (m *memoryBooks) Update(_ context.Context, b *book.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[b.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	existing.Title = b.Title
	existing.Description = b.Description
	existing.Author = b.Author
	existing.ImageURL = b.ImageURL
	existing.SearchKey = b.SearchKey
	existing.UpdatedAt = b.UpdatedAt
	return nil
}

func (m *memoryBooks) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *memoryBooks) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.books)
}
