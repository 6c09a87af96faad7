// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the registration and login HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes mounts the authentication endpoints on router.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a session token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /register

Request:
  - Body: registerRequest (Name, Password, Role)

Response:
  - 201: {"success": true, "message": "Registration successful"}
  - 400: Validation failure or name already taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, respond.Payload{FieldMessage: "Registration successful"})
}

/*
Login authenticates a user and issues a session token.

POST /login

Request:
  - Body: loginRequest (Name, Password)

Response:
  - 200: {"success": true, "token": "...", "role": "User"}
  - 400: Missing name or password
  - 401: Invalid name or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Payload{
		FieldToken: result.Token,
		FieldRole:  result.Role,
	})
}
