// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/catalog/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

const placeholder = "https://placehold.co/300x450?text=No+Cover"

const validDescription = "A sweeping tale of politics, religion and ecology on a desert planet."

func newService() (*book.Service, *memoryBooks) {
	repository := newMemoryBooks()
	return book.NewService(repository, placeholder), repository
}

func seed(t *testing.T, service *book.Service, count int) []*book.Book {
	t.Helper()
	created := make([]*book.Book, 0, count)
	for i := range count {
		b, err := service.Create(context.Background(), book.Input{
			Title:       fmt.Sprintf("Volume %02d", i+1),
			Description: validDescription,
			Author:      "Frank Herbert",
		})
		require.NoError(t, err)
		created = append(created, b)
	}
	return created
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected AppError, got %v", err)
	out := map[string][]string{}
	for _, d := range ae.Details {
		out[d.Field] = append(out[d.Field], d.Message)
	}
	return out
}

func TestListPage_TwentyFiveBooks(t *testing.T) {
	service, _ := newService()
	seed(t, service, 25)

	tests := []struct {
		page      int
		wantItems int
	}{
		{1, 10},
		{2, 10},
		{3, 5},
		{4, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page_%d", tt.page), func(t *testing.T) {
			listings, meta, err := service.ListPage(context.Background(), book.Filter{}, pagination.Params{Page: tt.page, Limit: 10})
			require.NoError(t, err)

			assert.Len(t, listings, tt.wantItems)
			assert.Equal(t, pagination.Meta{TotalItems: 25, TotalPages: 3, CurrentPage: tt.page, ItemsPerPage: 10}, meta)
		})
	}
}

func TestListPage_OrderIsStableAndDisjoint(t *testing.T) {
	service, _ := newService()
	created := seed(t, service, 7)

	var seen []string
	for page := 1; page <= 3; page++ {
		listings, _, err := service.ListPage(context.Background(), book.Filter{}, pagination.Params{Page: page, Limit: 3})
		require.NoError(t, err)
		for _, l := range listings {
			seen = append(seen, l.ID)
		}
	}

	want := make([]string, 0, len(created))
	for _, b := range created {
		want = append(want, b.ID)
	}
	assert.Equal(t, want, seen)
}

func TestListPage_DefaultsCoverAndNotes(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	_, err := service.Create(ctx, book.Input{Title: "Dune", Description: validDescription, Author: "Frank Herbert"})
	require.NoError(t, err)
	_, err = service.Create(ctx, book.Input{Title: "Emma", Description: validDescription, Author: "Jane Austen",
		ImageURL: pointer.To("https://covers.example.com/emma.jpg")})
	require.NoError(t, err)

	listings, _, err := service.ListPage(ctx, book.Filter{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "Dune", listings[0].Title)
	assert.Equal(t, "Frank Herbert", listings[0].Author)
	assert.Equal(t, validDescription, listings[0].Description)
	assert.Equal(t, placeholder, listings[0].ImageURL)
	assert.NotNil(t, listings[0].Notes)
	assert.Empty(t, listings[0].Notes)

	assert.Equal(t, "https://covers.example.com/emma.jpg", listings[1].ImageURL)

	all, err := service.ListAll(ctx)
	require.NoError(t, err)
	assert.Nil(t, all[0].ImageURL, "full listing is verbatim")
	assert.Nil(t, all[0].Notes)
}

func TestListPage_SearchFoldsAccentsAndCase(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	for _, input := range []book.Input{
		{Title: "Cien años de soledad", Description: validDescription, Author: "Gabriel Garcia Marquez"},
		{Title: "Les Misérables", Description: validDescription, Author: "Victor Hugo"},
		{Title: "Dune", Description: validDescription, Author: "Frank Herbert"},
	} {
		_, err := service.Create(ctx, input)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"miserables", []string{"Les Misérables"}},
		{"ANOS", []string{"Cien años de soledad"}},
		{"hugo", []string{"Les Misérables"}},
		{"e", []string{"Cien años de soledad", "Les Misérables", "Dune"}},
		{"tolkien", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			listings, meta, err := service.ListPage(ctx, book.Filter{Query: tt.query}, pagination.Params{Page: 1, Limit: 10})
			require.NoError(t, err)

			var titles []string
			for _, l := range listings {
				titles = append(titles, l.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.Equal(t, len(tt.want), meta.TotalItems)
		})
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input book.Input
		want  map[string][]string
	}{
		{
			name:  "empty",
			input: book.Input{},
			want: map[string][]string{
				"title":       {"Title is required", "Title must be at least 3 characters long"},
				"description": {"Description is required", "Description must be at least 20 characters long"},
				"author":      {"Author is required", "Author name must contain only alphabetical characters, spaces and periods"},
			},
		},
		{
			name:  "short_fields",
			input: book.Input{Title: "Go", Description: "Too short.", Author: "Rob Pike"},
			want: map[string][]string{
				"title":       {"Title must be at least 3 characters long"},
				"description": {"Description must be at least 20 characters long"},
			},
		},
		{
			name:  "author_with_digits",
			input: book.Input{Title: "Dune", Description: validDescription, Author: "Herbert 2"},
			want:  map[string][]string{"author": {"Author name must contain only alphabetical characters, spaces and periods"}},
		},
		{
			name:  "author_with_tab",
			input: book.Input{Title: "Dune", Description: validDescription, Author: "Frank\tHerbert"},
			want:  map[string][]string{"author": {"Author name must contain only alphabetical characters, spaces and periods"}},
		},
		{
			name:  "author_with_newline",
			input: book.Input{Title: "Dune", Description: validDescription, Author: "Frank\nHerbert"},
			want:  map[string][]string{"author": {"Author name must contain only alphabetical characters, spaces and periods"}},
		},
		{
			name:  "bad_image_url",
			input: book.Input{Title: "Dune", Description: validDescription, Author: "Frank Herbert", ImageURL: pointer.To("not a url")},
			want:  map[string][]string{"imageUrl": {"Image URL must be a valid URL"}},
		},
		{
			name:  "whitespace_title_trimmed_before_length",
			input: book.Input{Title: "  ab  ", Description: validDescription, Author: "Frank Herbert"},
			want:  map[string][]string{"title": {"Title must be at least 3 characters long"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repository := newService()

			_, err := service.Create(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
			assert.Equal(t, tt.want, fields(t, err))
			assert.Zero(t, repository.size())
		})
	}
}

func TestCreate_AcceptsInitialsAndBlankImage(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), book.Input{
		Title:       "  The Hobbit ",
		Description: validDescription,
		Author:      "J. R. R. Tolkien",
		ImageURL:    pointer.To("   "),
	})
	require.NoError(t, err)

	assert.Equal(t, "The Hobbit", created.Title)
	assert.Nil(t, created.ImageURL)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestUpdate(t *testing.T) {
	service, repository := newService()
	ctx := context.Background()
	created := seed(t, service, 1)[0]
	repository.books[created.ID].Notes = []book.Note{{Reviewer: "Ana", Comment: "Timeless", Rating: 5}}

	updated, err := service.Update(ctx, created.ID, book.Input{
		Title:       "Dune Messiah",
		Description: validDescription,
		Author:      "Frank Herbert",
		ImageURL:    pointer.To("https://covers.example.com/messiah.jpg"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.CreatedAt.IsZero())
	require.Len(t, updated.Notes, 1)
	assert.Equal(t, "Ana", updated.Notes[0].Reviewer)

	stored, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", stored.Title)
	assert.Equal(t, "https://covers.example.com/messiah.jpg", *stored.ImageURL)
	assert.Equal(t, created.CreatedAt, stored.CreatedAt)
	assert.Equal(t, 1, repository.size())
}

func TestUnknownOrMalformedIDsAreNotFound(t *testing.T) {
	service, repository := newService()
	ctx := context.Background()
	seed(t, service, 3)

	valid := book.Input{Title: "Dune", Description: validDescription, Author: "Frank Herbert"}

	for _, id := range []string{"0190f3e4-7c1a-7b2e-9f00-1234567890ab", "not-a-uuid", ""} {
		t.Run(fmt.Sprintf("id=%q", id), func(t *testing.T) {
			_, err := service.Update(ctx, id, valid)
			assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
			assert.Equal(t, "Book not found", err.Error())

			err = service.Delete(ctx, id)
			assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

			_, err = service.Get(ctx, id)
			assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

			assert.Equal(t, 3, repository.size())
		})
	}
}

func TestDelete(t *testing.T) {
	service, repository := newService()
	created := seed(t, service, 2)

	require.NoError(t, service.Delete(context.Background(), created[0].ID))
	assert.Equal(t, 1, repository.size())

	err := service.Delete(context.Background(), created[0].ID)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

func TestUpdate_ValidationRunsBeforeLookup(t *testing.T) {
	service, _ := newService()

	_, err := service.Update(context.Background(), "not-a-uuid", book.Input{Title: strings.Repeat(" ", 3)})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}
