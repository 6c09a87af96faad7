// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	Author      string
	ImageURL    string
	Notes       string
	SearchKey   string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:       "catalog.book",
	ID:          "id",
	Title:       "title",
	Description: "description",
	Author:      "author",
	ImageURL:    "imageurl",
	Notes:       "notes",
	SearchKey:   "searchkey",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns the columns read back into a book. The search key is
// write-only and is not included.
func (t CatalogBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Author, t.ImageURL,
		t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}

// ColumnList returns [CatalogBookTable.Columns] as a comma separated list.
func (t CatalogBookTable) ColumnList() string {
	return list(t.Columns())
}

// Ordering is the stable catalog order: insertion time, then id.
func (t CatalogBookTable) Ordering() string {
	return t.CreatedAt + " ASC, " + t.ID + " ASC"
}
