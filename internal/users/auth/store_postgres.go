// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

/*
Create persists a new user record into the users.account table.

Description: The UNIQUE constraint on name is the final arbiter for concurrent
registrations of the same name; a violation is reported as dberr.ErrDuplicate.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: dberr.ErrDuplicate or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.UserAccount.Table, schema.UserAccount.ColumnList(),
	)

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	)

	if err != nil {
		if dberr.IsDuplicate(err) {
			return dberr.ErrDuplicate
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByName retrieves a user record by its unique name.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByName(context context.Context, name string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ColumnList(), schema.UserAccount.Table, schema.UserAccount.Name,
	)

	var role string
	user := &User{}
	err := repository.db.QueryRow(context, query, name).Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_name_failed: %w", dberr.Wrap(err))
	}

	user.Role = sec.UserRole(role)
	return user, nil
}

/*
Exists checks whether the name is already registered.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - bool: true when a row exists
  - error: Database errors
*/
func (repository *PostgresUserRepository) Exists(context context.Context, name string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserAccount.Table, schema.UserAccount.Name,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}

	return exists, nil
}
