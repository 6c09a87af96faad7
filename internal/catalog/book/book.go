// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book implements the catalog of book records: storage, an optional
Redis listing cache, validation rules, and the HTTP endpoints.

# Read Paths

  - Paginated listing returns [Listing] values, with the cover defaulted to a
    placeholder and notes defaulted to an empty list.
  - The full listing and single lookups return [Book] values verbatim.
*/
package book

import "time"

// # Domain Entities

// Note is a reader review attached to a book. Notes are stored and returned
// as-is; the API offers no way to write them.
type Note struct {
	Reviewer string  `json:"reviewer"`
	Comment  string  `json:"comment"`
	Rating   float64 `json:"rating"`
}

// Book is a catalog record as stored.
type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Author      string     `json:"author"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	Notes       []Note     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`

	// SearchKey is the folded "title author" string matched by [Filter.Query].
	SearchKey string `json:"-"`
}

// Listing is the paginated-read view of a [Book].
type Listing struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Author      string     `json:"author"`
	ImageURL    string     `json:"imageUrl"`
	Notes       []Note     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Filter narrows a paginated listing.
type Filter struct {
	// Query is matched case- and accent-insensitively against title and author.
	Query string
}

// # Field Identifiers

// Field names used in validation errors and response payloads.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAuthor      = "author"
	FieldImageURL    = "imageUrl"
	FieldBook        = "book"
	FieldBooks       = "books"
	FieldBookID      = "bookId"
	FieldMessage     = "message"
)
