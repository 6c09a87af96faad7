// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Name:         "name",
	PasswordHash: "passwordhash",
	Role:         "role",
	CreatedAt:    "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Name, t.PasswordHash, t.Role, t.CreatedAt}
}

// ColumnList returns [UserAccountTable.Columns] as a comma separated list.
func (t UserAccountTable) ColumnList() string {
	return list(t.Columns())
}
