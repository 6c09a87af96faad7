// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/postgres"
	"github.com/taibuivan/bookshelf/pkg/fold"
)

var (
	table         = schema.CatalogBook.Table
	selectColumns = schema.CatalogBook.ColumnList()
	ordering      = schema.CatalogBook.Ordering()
)

// PostgresRepository implements [Repository] on the catalog.book table.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
ListPage returns one page of books and the total number of matching rows.

Parameters:
  - context: context.Context
  - filter: Filter (Query is folded before matching)
  - limit, offset: int

Returns:
  - []*Book: The page, possibly empty
  - int: Total matching rows across all pages
  - error: Database failures
*/
func (repository *PostgresRepository) ListPage(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	query := `SELECT ` + selectColumns + ` FROM ` + table
	countQuery := `SELECT count(*) FROM ` + table

	args := []any{}
	countArgs := []any{}

	if term := fold.String(filter.Query); term != "" {
		pattern := "%" + fold.EscapeLike(term) + "%"
		where := ` WHERE ` + schema.CatalogBook.SearchKey + ` LIKE $1`
		query += where
		countQuery += where
		args = append(args, pattern)
		countArgs = append(countArgs, pattern)
	}

	query += ` ORDER BY ` + ordering + ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_book_repo_count_failed: %w", err)
	}

	books, err := repository.query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_book_repo_list_page_failed: %w", err)
	}

	return books, total, nil
}

// ListAll returns every book in catalog order.
func (repository *PostgresRepository) ListAll(context context.Context) ([]*Book, error) {
	query := `SELECT ` + selectColumns + ` FROM ` + table + ` ORDER BY ` + ordering

	books, err := repository.query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_book_repo_list_all_failed: %w", err)
	}
	return books, nil
}

// FindByID returns a single book or dberr.ErrNotFound.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := `SELECT ` + selectColumns + ` FROM ` + table + ` WHERE ` + schema.CatalogBook.ID + ` = $1`

	book, err := scanBook(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_book_repo_find_by_id_failed: %w", dberr.Wrap(err))
	}
	return book, nil
}

/*
Create inserts a new record. ID and CreatedAt are assigned by the caller.

Parameters:
  - context: context.Context
  - book: *Book

Returns:
  - error: Database failures
*/
func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	b := schema.CatalogBook
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.Table, b.ID, b.Title, b.Description, b.Author, b.ImageURL, b.Notes, b.SearchKey, b.CreatedAt,
	)

	notes, err := encodeNotes(book.Notes)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_encode_notes_failed: %w", err)
	}

	_, err = repository.db.Exec(context, query,
		book.ID,
		book.Title,
		book.Description,
		book.Author,
		book.ImageURL,
		notes,
		book.SearchKey,
		book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update overwrites title, description, author, imageurl and the derived search
key, and stamps updatedat. Notes and createdat are left untouched.

Returns:
  - error: dberr.ErrNotFound if no row matched, or database failures
*/
func (repository *PostgresRepository) Update(context context.Context, book *Book) error {
	b := schema.CatalogBook
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		b.Table, b.Title, b.Description, b.Author, b.ImageURL, b.SearchKey, b.UpdatedAt, b.ID,
	)

	tag, err := repository.db.Exec(context, query,
		book.ID,
		book.Title,
		book.Description,
		book.Author,
		book.ImageURL,
		book.SearchKey,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// Delete removes a record, or returns dberr.ErrNotFound.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := `DELETE FROM ` + table + ` WHERE ` + schema.CatalogBook.ID + ` = $1`

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Scanning

func (repository *PostgresRepository) query(context context.Context, query string, args ...any) ([]*Book, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

func scanBook(row pgx.Row) (*Book, error) {
	var notes []byte
	book := &Book{}

	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Description,
		&book.Author,
		&book.ImageURL,
		&notes,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &book.Notes); err != nil {
			return nil, fmt.Errorf("decode notes of book %s: %w", book.ID, err)
		}
	}

	return book, nil
}

// encodeNotes returns nil for an empty slice so the column stays NULL.
func encodeNotes(notes []Note) ([]byte, error) {
	if len(notes) == 0 {
		return nil, nil
	}
	return json.Marshal(notes)
}
