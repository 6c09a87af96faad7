// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity layer: credential storage,
registration, and login.

# Architecture

  - Entities: [User] carries the stored credential, never serialized with its hash.
  - Service: Validates input and orchestrates hashing, storage and token issuance.
  - Repository: [UserRepository] hides PostgreSQL behind a narrow contract.
*/
package auth

import (
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// # Field Identifiers

// Field names used in validation errors and response payloads.
const (
	FieldName     = "name"
	FieldPassword = "password"
	FieldRole     = "role"
	FieldToken    = "token"
	FieldMessage  = "message"
)
