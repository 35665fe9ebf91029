// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// roleNames lists the accepted role values for validation messages.
var roleNames = slice.Map(sec.Roles, sec.Role.String)

// Service implements the users directory use cases.
type Service struct {
	accountRepository AccountRepository
}

// NewService constructs a new account [Service].
func NewService(repo AccountRepository) *Service {
	return &Service{accountRepository: repo}
}

// # Inputs

// CreateInput holds a new account submitted by an admin.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UpdateInput is a partial update. Nil fields are left unchanged and an empty
// role counts as absent.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// # Directory (admin)

// List returns one page of accounts matching filter.
func (service *Service) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// Get returns the account with the exact username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
Create adds an account without going through signup.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: The stored account
  - error: ValidationError or Conflict naming the duplicate field
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	validator := &validate.Validator{}
	auth.ValidateUsername(validator, input.Username)
	auth.ValidateEmail(validator, input.Email)
	validateProfile(validator, &input.FirstName, &input.LastName)
	if input.Role != "" {
		validator.OneOf(auth.FieldRole, input.Role, roleNames...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.Role(input.Role),
	}
	if user.Role == "" {
		user.Role = sec.RoleUser
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", auth.ConflictFromViolation(err))
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_created",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, nil
}

// Update applies a partial update to the account named by username.
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}
	return service.apply(context, user, input)
}

// Delete removes the account named by username.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	if err := service.accountRepository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_deleted", slog.Int64("user_id", user.ID))
	return nil
}

// # Self Service

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, identity *sec.Identity) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, identity.Username)
	if err != nil {
		return nil, fmt.Errorf("account_service_me_failed: %w", err)
	}
	return user, nil
}

/*
UpdateMe applies a partial update to the caller's own account.

Description: Only admins may rename themselves or change their role through
this endpoint. Everyone else gets a field error for either attempt; resending
the current username is allowed.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (The caller)
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: ValidationError or Conflict
*/
func (service *Service) UpdateMe(context context.Context, identity *sec.Identity, input UpdateInput) (*auth.User, error) {
	if !identity.IsAdmin() {
		validator := &validate.Validator{}
		validator.Custom(auth.FieldUsername, input.Username != nil && *input.Username != identity.Username,
			"You cannot change your username").
			Custom(auth.FieldRole, pointer.Val(input.Role) != "",
				"You cannot change your role")
		if err := validator.Err(); err != nil {
			return nil, err
		}
	}

	user, err := service.Me(context, identity)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input)
}

func (service *Service) apply(context context.Context, user *auth.User, input UpdateInput) (*auth.User, error) {
	if pointer.Val(input.Role) == "" {
		input.Role = nil
	}

	validator := &validate.Validator{}
	if input.Username != nil {
		auth.ValidateUsername(validator, *input.Username)
	}
	if input.Email != nil {
		auth.ValidateEmail(validator, *input.Email)
	}
	validateProfile(validator, input.FirstName, input.LastName)
	if input.Role != nil {
		validator.OneOf(auth.FieldRole, *input.Role, roleNames...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user.Username = pointer.Fallback(input.Username, user.Username)
	user.Email = pointer.Fallback(input.Email, user.Email)
	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)
	if input.Role != nil {
		user.Role = sec.Role(*input.Role)
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", auth.ConflictFromViolation(err))
	}
	return user, nil
}

func validateProfile(validator *validate.Validator, firstName, lastName *string) {
	if firstName != nil {
		validator.MaxLen(auth.FieldFirstName, strings.TrimSpace(*firstName), auth.MaxNameLength)
	}
	if lastName != nil {
		validator.MaxLen(auth.FieldLastName, strings.TrimSpace(*lastName), auth.MaxNameLength)
	}
}
