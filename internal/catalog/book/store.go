// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "context"

// Repository is the data access contract for the catalog.
//
// Ordering is stable across calls: oldest first, ties broken by id.
type Repository interface {
	ListPage(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error)
	ListAll(context context.Context) ([]*Book, error)
	FindByID(context context.Context, id string) (*Book, error)
	Create(context context.Context, book *Book) error

	// Update replaces the editable fields. It returns dberr.ErrNotFound when
	// no row has the given id.
	Update(context context.Context, book *Book) error

	// Delete removes a record. It returns dberr.ErrNotFound when no row has
	// the given id.
	Delete(context context.Context, id string) error
}
