// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Accounts are never updated or deleted through this contract.
type UserRepository interface {

	/*
		FindByName returns the account with the given name (case-sensitive).

		Parameters:
		  - context: context.Context
		  - name: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound when absent, or database retrieval failures
	*/
	FindByName(context context.Context, name string) (*User, error)

	/*
		Exists reports whether an account with the given name is stored.

		Parameters:
		  - context: context.Context
		  - name: string

		Returns:
		  - bool: true when the name is taken
		  - error: Database retrieval failures
	*/
	Exists(context context.Context, name string) (bool, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: dberr.ErrDuplicate if the name is already stored, or persistence failures
	*/
	Create(context context.Context, user *User) error
}
