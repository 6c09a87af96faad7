// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/fold"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/pointer"
	"github.com/taibuivan/bookshelf/pkg/uuid"
)

// # Validation Rules

const (
	minTitleLength       = 3
	minDescriptionLength = 20

	msgTitleRequired       = "Title is required"
	msgTitleTooShort       = "Title must be at least 3 characters long"
	msgDescriptionRequired = "Description is required"
	msgDescriptionTooShort = "Description must be at least 20 characters long"
	msgAuthorRequired      = "Author is required"
	msgAuthorCharacters    = "Author name must contain only alphabetical characters, spaces and periods"
	msgImageURLInvalid     = "Image URL must be a valid URL"
)

// authorRegex admits initials such as "J. R. R. Tolkien".
var authorRegex = regexp.MustCompile(`^[A-Za-z .]+$`)

// errBookNotFound is the client-facing error for unknown or malformed ids.
var errBookNotFound = apperr.NotFound("Book")

// Service implements the catalog use cases.
type Service struct {
	repository          Repository
	placeholderImageURL string
	now                 func() time.Time
}

// NewService constructs a new [Service].
//
// placeholderImageURL is substituted for missing covers on paginated reads.
func NewService(repository Repository, placeholderImageURL string) *Service {
	return &Service{
		repository:          repository,
		placeholderImageURL: placeholderImageURL,
		now:                 time.Now,
	}
}

// Input carries the client-editable fields of a book.
type Input struct {
	Title       string
	Description string
	Author      string
	ImageURL    *string
}

// # Reads

/*
ListPage returns one page of the catalog in the listing view.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params (already coerced to positive values)

Returns:
  - []Listing: Items with cover and notes defaulted
  - pagination.Meta: Totals for the whole filtered collection
  - error: Storage failures
*/
func (service *Service) ListPage(context context.Context, filter Filter, params pagination.Params) ([]Listing, pagination.Meta, error) {
	books, total, err := service.repository.ListPage(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("book_service_list_page_failed: %w", err)
	}

	listings := make([]Listing, 0, len(books))
	for _, book := range books {
		listings = append(listings, service.toListing(book))
	}

	return listings, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// ListAll returns the whole catalog verbatim.
func (service *Service) ListAll(context context.Context) ([]*Book, error) {
	books, err := service.repository.ListAll(context)
	if err != nil {
		return nil, fmt.Errorf("book_service_list_all_failed: %w", err)
	}
	return books, nil
}

// Get returns a single book, or a 404 error for unknown or malformed ids.
func (service *Service) Get(context context.Context, id string) (*Book, error) {
	if !uuid.Valid(id) {
		return nil, errBookNotFound
	}

	book, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, notFoundOr(err, "book_service_get_failed")
	}
	return book, nil
}

// # Mutations

/*
Create validates the input and stores a new book.

Returns:
  - *Book: The stored record, including its new id
  - error: ValidationError or storage failures
*/
func (service *Service) Create(context context.Context, input Input) (*Book, error) {
	input = normalize(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	book := &Book{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Author:      input.Author,
		ImageURL:    input.ImageURL,
		SearchKey:   fold.Key(input.Title, input.Author),
		CreatedAt:   service.now().UTC(),
	}

	if err := service.repository.Create(context, book); err != nil {
		return nil, fmt.Errorf("book_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "book_created",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
	)

	return book, nil
}

/*
Update validates the input and overwrites the editable fields of a book.

Returns:
  - *Book: The stored record after the write
  - error: ValidationError, NotFound, or storage failures
*/
func (service *Service) Update(context context.Context, id string, input Input) (*Book, error) {
	input = normalize(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if !uuid.Valid(id) {
		return nil, errBookNotFound
	}

	updatedAt := service.now().UTC()
	book := &Book{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Author:      input.Author,
		ImageURL:    input.ImageURL,
		SearchKey:   fold.Key(input.Title, input.Author),
		UpdatedAt:   &updatedAt,
	}

	if err := service.repository.Update(context, book); err != nil {
		return nil, notFoundOr(err, "book_service_update_failed")
	}

	ctxutil.GetLogger(context).InfoContext(context, "book_updated", slog.String("book_id", id))

	stored, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, notFoundOr(err, "book_service_reload_failed")
	}

	return stored, nil
}

// Delete removes a book, or returns a 404 error if it does not exist.
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return errBookNotFound
	}

	if err := service.repository.Delete(context, id); err != nil {
		return notFoundOr(err, "book_service_delete_failed")
	}

	ctxutil.GetLogger(context).InfoContext(context, "book_deleted", slog.String("book_id", id))

	return nil
}

// # Helpers

// normalize trims every field. A blank image URL counts as absent.
func normalize(input Input) Input {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Author = strings.TrimSpace(input.Author)

	imageURL := input.ImageURL
	input.ImageURL = nil
	if trimmed := strings.TrimSpace(pointer.Val(imageURL)); trimmed != "" {
		input.ImageURL = pointer.To(trimmed)
	}

	return input
}

func validateInput(input Input) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title, msgTitleRequired).
		MinLen(FieldTitle, input.Title, minTitleLength, msgTitleTooShort).
		Required(FieldDescription, input.Description, msgDescriptionRequired).
		MinLen(FieldDescription, input.Description, minDescriptionLength, msgDescriptionTooShort).
		Required(FieldAuthor, input.Author, msgAuthorRequired).
		Matches(FieldAuthor, input.Author, authorRegex, msgAuthorCharacters)

	if input.ImageURL != nil {
		validator.URL(FieldImageURL, *input.ImageURL, msgImageURLInvalid)
	}

	return validator.Err()
}

func (service *Service) toListing(book *Book) Listing {
	imageURL := pointer.Val(book.ImageURL)
	if imageURL == "" {
		imageURL = service.placeholderImageURL
	}

	notes := book.Notes
	if notes == nil {
		notes = []Note{}
	}

	return Listing{
		ID:          book.ID,
		Title:       book.Title,
		Description: book.Description,
		Author:      book.Author,
		ImageURL:    imageURL,
		Notes:       notes,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return errBookNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}
