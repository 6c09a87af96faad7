// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
)

func TestUserAccount_ColumnList(t *testing.T) {
	assert.Equal(t, "id, name, passwordhash, role, createdat", schema.UserAccount.ColumnList())
}

func TestCatalogBook_ColumnListExcludesSearchKey(t *testing.T) {
	assert.Equal(t,
		"id, title, description, author, imageurl, notes, createdat, updatedat",
		schema.CatalogBook.ColumnList(),
	)
	assert.NotContains(t, schema.CatalogBook.Columns(), schema.CatalogBook.SearchKey)
}

func TestCatalogBook_Ordering(t *testing.T) {
	assert.Equal(t, "createdat ASC, id ASC", schema.CatalogBook.Ordering())
}
