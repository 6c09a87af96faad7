// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the catalog endpoints. Reads are public; every
// mutation runs behind gate.
//
// # Endpoints
//   - GET    /books           : Paginated listing (page, limit, q).
//   - GET    /api/books       : Full listing.
//   - GET    /api/books/{id}  : Single book.
//   - POST   /api/books       : Create (gated).
//   - PUT    /api/books/{id}  : Update (gated).
//   - DELETE /api/books/{id}  : Delete (gated).
func (handler *Handler) RegisterRoutes(router chi.Router, gate func(http.Handler) http.Handler) {
	router.Get("/books", handler.listPage)

	router.Route("/api/books", func(books chi.Router) {
		books.Get("/", handler.listAll)
		books.Get("/{id}", handler.get)

		books.Group(func(admin chi.Router) {
			admin.Use(gate)
			admin.Post("/", handler.create)
			admin.Put("/{id}", handler.update)
			admin.Delete("/{id}", handler.delete)
		})
	})
}

type bookRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
	ImageURL    *string `json:"imageUrl"`
}

func (input bookRequest) toInput() Input {
	return Input{
		Title:       input.Title,
		Description: input.Description,
		Author:      input.Author,
		ImageURL:    input.ImageURL,
	}
}

func (handler *Handler) listPage(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Query: requestutil.Query(request, "q")}

	listings, meta, err := handler.service.ListPage(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, meta)
}

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	books, err := handler.service.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Payload{FieldBooks: books})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Payload{FieldBook: book})
}

/*
Create adds a book to the catalog.

POST /api/books

Response:
  - 201: {"success": true, "message": "Book \"<title>\" added successfully", "bookId": "..."}
  - 400: Validation failure
  - 401 / 403: Rejected by the gate
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input bookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Create(request.Context(), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, respond.Payload{
		FieldMessage: fmt.Sprintf(`Book "%s" added successfully`, book.Title),
		FieldBookID:  book.ID,
	})
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input bookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Payload{
		FieldMessage: "Book updated successfully",
		FieldBook:    book,
	})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Payload{FieldMessage: "Book deleted successfully"})
}
