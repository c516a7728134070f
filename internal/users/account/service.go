// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/dberr"
	"github.com/taibuivan/critica/internal/platform/sec"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/internal/users/auth"
	"github.com/taibuivan/critica/pkg/pagination"
	"github.com/taibuivan/critica/pkg/pointer"
	"github.com/taibuivan/critica/pkg/uuid"
)

// Service implements administrative and self-service account use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Administrative Operations

/*
List returns a page of accounts for administrative browsing.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - search: string (optional username/email substring)

Returns:
  - []auth.User: Page of accounts
  - int: Total matching count
  - err: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params, search string) ([]auth.User, int, error) {
	users, total, err := service.repository.List(context, params.Limit, params.Offset(), search)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateInput holds the data for administrative account creation.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      sec.UserRole
}

/*
Create provisions an account directly, bypassing the signup handshake.

Description: Admin-only path. Unlike signup, the role may be set explicitly
at creation time.

Returns:
  - *auth.User: Created entity
  - err: Validation, Conflict or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	if input.Role == "" {
		input.Role = sec.RoleUser
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		Username(auth.FieldUsername, input.Username).
		MaxLen(auth.FieldUsername, input.Username, auth.MaxUsernameLength).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Custom(auth.FieldRole, !input.Role.IsValid(), "Must be one of: user, moderator, admin")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	}

	if err := service.repository.Create(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Username or email is already registered")
		}
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	return user, nil
}

/*
Get returns a single account by username.

Returns:
  - *auth.User: Hydrated entity
  - err: NotFound or storage failures
*/
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.repository.FindByUsername(context, username)
}

// UpdateInput holds partial-update fields. Nil pointers leave the stored
// value untouched.
type UpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

/*
Update applies an administrative partial update to an account.

Description: Admin-only path. May change the role; doing so invalidates any
outstanding confirmation codes for the account because the code binding
covers the role field.

Returns:
  - *auth.User: Updated entity
  - err: NotFound, Validation, Conflict or storage errors
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if err := service.apply(user, input, true); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	return user, nil
}

/*
Delete permanently removes an account.

Description: Admin-only path. The storage layer cascades the deletion to the
account's reviews and comments.

Returns:
  - err: NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, username string) error {

	// Resolve first so an unknown username yields 404, not a silent no-op.
	if _, err := service.repository.FindByUsername(context, username); err != nil {
		return err
	}

	if err := service.repository.Delete(context, username); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	return nil
}

// # Self-Service Operations

/*
GetSelf returns the authenticated user's own account.

Returns:
  - *auth.User: Hydrated entity
  - err: NotFound (deleted while authenticated) or storage failures
*/
func (service *Service) GetSelf(context context.Context, userID string) (*auth.User, error) {
	return service.repository.FindByID(context, userID)
}

/*
UpdateSelf applies a partial update to the caller's own account.

Description: A role field in the payload is silently discarded for non-admin
callers instead of rejected. The field is treated as read-only for them, so
clients may round-trip a previously fetched profile without failing.

Parameters:
  - context: context.Context
  - userID: string (from verified claims)
  - input: UpdateInput
  - isAdmin: bool (whether the caller may change the role)

Returns:
  - *auth.User: Updated entity
  - err: NotFound, Validation, Conflict or storage errors
*/
func (service *Service) UpdateSelf(context context.Context, userID string, input UpdateInput, isAdmin bool) (*auth.User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if err := service.apply(user, input, isAdmin); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("account_service_update_self_failed: %w", err)
	}

	return user, nil
}

// apply merges the partial input into the entity. The role is only applied
// when allowRole is set; otherwise it is dropped without error.
func (service *Service) apply(user *auth.User, input UpdateInput, allowRole bool) error {
	validator := &validate.Validator{}

	if input.Email != nil {
		email := pointer.Val(input.Email)
		validator.Required(auth.FieldEmail, email).
			Email(auth.FieldEmail, email).
			MaxLen(auth.FieldEmail, email, auth.MaxEmailLength)
		user.Email = email
	}

	if input.Role != nil && allowRole {
		role := sec.UserRole(pointer.Val(input.Role))
		validator.Custom(auth.FieldRole, !role.IsValid(), "Must be one of: user, moderator, admin")
		user.Role = role
	}

	if err := validator.Err(); err != nil {
		return err
	}

	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)

	return nil
}
