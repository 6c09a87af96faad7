// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column names of the PostgreSQL schema.
//
// Repositories build their SQL from these definitions so a rename in a
// migration is a one-line change here.
package schema

import "strings"

// list joins column names for a SELECT or INSERT column list.
func list(columns []string) string {
	return strings.Join(columns, ", ")
}
