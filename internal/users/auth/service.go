// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/uuid"
)

// # Client Messages

const (
	msgNameRequired     = "Name is required"
	msgNameLetters      = "Name must contain only alphabetical characters"
	msgPasswordTooShort = "Password must be at least 6 characters long"
	msgPasswordTooLong  = "Password must be at most 72 bytes long"
	msgPasswordRequired = "Password is required"
	msgRoleRequired     = "Role is required"
	msgRoleInvalid      = "Role must be either User or Admin"
	msgNameTaken        = "This name is already taken"
	msgBadCredentials   = "Invalid name or password"
)

// minPasswordLength is the shortest accepted password, in characters.
const minPasswordLength = 6

// nameRegex restricts account names to ASCII letters.
var nameRegex = regexp.MustCompile(`^[A-Za-z]+$`)

// # Contracts & Types

// PasswordHasher produces and checks password hashes.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, existingHash string) bool
}

// TokenProvider defines the contract for issuing session tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, name, role string) (string, error)
}

// Service implements the registration and login use cases.
type Service struct {
	userRepository UserRepository
	hasher         PasswordHasher
	tokenProvider  TokenProvider
	now            func() time.Time

	// dummyHash is verified against when the name is unknown, so both
	// login failures pay for one hash comparison.
	dummyHashOnce sync.Once
	dummyHash     string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, hasher PasswordHasher, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		tokenProvider:  tokenProv,
		now:            time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	Password string
	Role     string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Every violated rule is reported at once. A taken name is reported
as a field error on "name", whether it is caught by the pre-check or by the
unique constraint during a concurrent registration. No token is issued.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - err: ValidationError, Conflict, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) error {
	name := strings.TrimSpace(input.Name)
	role := strings.TrimSpace(input.Role)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, name, msgNameRequired).
		Matches(FieldName, name, nameRegex, msgNameLetters).
		MinLen(FieldPassword, input.Password, minPasswordLength, msgPasswordTooShort).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes, msgPasswordTooLong).
		Required(FieldRole, role, msgRoleRequired).
		OneOf(FieldRole, role, sec.RoleNames(), msgRoleInvalid)

	if err := validator.Err(); err != nil {
		return err
	}

	// Check-then-insert is racy; the unique constraint below settles ties.
	exists, err := service.userRepository.Exists(context, name)
	if err != nil {
		return fmt.Errorf("auth_service_exists_failed: %w", err)
	}
	if exists {
		return nameTaken()
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, sec.ErrPasswordTooLong) {
			return apperr.ValidationError("Validation failed", apperr.FieldError{Field: FieldPassword, Message: msgPasswordTooLong})
		}
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         sec.UserRole(role),
		CreatedAt:    service.now().UTC(),
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if errors.Is(err, dberr.ErrDuplicate) {
			return nameTaken()
		}
		return fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", role),
	)

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Name     string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	Role  sec.UserRole
}

/*
Login validates user credentials and issues a session token.

Description: An unknown name and a wrong password produce the same error so
the response does not reveal which names are registered.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Signed token and the account's role
  - err: ValidationError, Unauthorized, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, name, msgNameRequired).
		Custom(FieldPassword, input.Password == "", msgPasswordRequired)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByName(context, name)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			service.hasher.Verify(input.Password, service.loginDummyHash())
			return nil, apperr.Unauthorized(msgBadCredentials)
		}
		return nil, fmt.Errorf("auth_service_find_user_failed: %w", err)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		ctxutil.GetLogger(context).WarnContext(context, "login_password_mismatch",
			slog.String("user_id", user.ID),
		)
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_logged_in",
		slog.String("user_id", user.ID),
	)

	return &LoginResult{Token: token, Role: user.Role}, nil
}

// loginDummyHash returns a hash produced with the configured hasher.
func (service *Service) loginDummyHash() string {
	service.dummyHashOnce.Do(func() {
		hash, err := service.hasher.Hash("bookshelf-login-placeholder")
		if err == nil {
			service.dummyHash = hash
		}
	})
	return service.dummyHash
}

func nameTaken() error {
	return apperr.Conflict(msgNameTaken, apperr.FieldError{Field: FieldName, Message: msgNameTaken})
}
