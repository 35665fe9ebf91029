// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// SignupSubject is the subject line of the confirmation mail.
const SignupSubject = "Yamdb registration success."

// # Contracts & Types

// TokenProvider generates access tokens. Implemented by [*sec.TokenService].
type TokenProvider interface {
	GenerateAccessToken(userID int64, username string) (string, error)
}

// CodeProvider issues and checks confirmation codes. Implemented by [*sec.CodeGenerator].
type CodeProvider interface {
	Generate(subject sec.CodeSubject) string
	Check(subject sec.CodeSubject, code string) bool
}

// Service implements the signup and token exchange use cases.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	codeProvider   CodeProvider
	notifier       mail.Notifier
	now            func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, codeProv CodeProvider, notifier mail.Notifier) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		codeProvider:   codeProv,
		notifier:       notifier,
		now:            time.Now,
	}
}

// # Signup Flow

// SignupInput holds the data submitted to the signup endpoint.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup finds or creates the account for (username, email) and mails it a
fresh confirmation code.

Description: Signing up again with the same pair is not an error; it simply
sends a new code. A pair that collides with another account on only one of
the two values is a conflict.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The account the code was sent to
  - error: ValidationError, Conflict, or enqueue and storage failures
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	validator := &validate.Validator{}
	ValidateUsername(validator, input.Username)
	ValidateEmail(validator, input.Email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, outcome, err := service.findOrCreate(context, input)
	if err != nil {
		return nil, err
	}

	code := service.codeProvider.Generate(user.CodeSubject())
	body := fmt.Sprintf("Hello, %s!\n\nYour confirmation code: %s\n", user.Username, code)

	if err := service.notifier.Send(context, user.Email, SignupSubject, body); err != nil {
		return nil, fmt.Errorf("auth_service_notify_failed: %w", err)
	}

	metrics.Signups.WithLabelValues(outcome).Inc()
	ctxutil.GetLogger(context).InfoContext(context, "user_signed_up",
		slog.Int64("user_id", user.ID),
		slog.String("outcome", outcome),
	)

	return user, nil
}

func (service *Service) findOrCreate(context context.Context, input SignupInput) (*User, string, error) {
	user, err := service.userRepository.FindByUsernameAndEmail(context, input.Username, input.Email)
	if err == nil {
		return user, "existing", nil
	}
	if !apperr.IsNotFound(err) {
		return nil, "", fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	user = &User{Username: input.Username, Email: input.Email, Role: sec.RoleUser}
	err = service.userRepository.Create(context, user)
	if err == nil {
		return user, "created", nil
	}
	if !dberr.IsUnique(err, "") {
		return nil, "", fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// A concurrent signup for the same pair may have won the insert.
	existing, findErr := service.userRepository.FindByUsernameAndEmail(context, input.Username, input.Email)
	if findErr == nil {
		return existing, "existing", nil
	}
	if !apperr.IsNotFound(findErr) {
		return nil, "", fmt.Errorf("auth_service_signup_failed: %w", findErr)
	}

	return nil, "", ConflictFromViolation(err)
}

// # Token Exchange

// TokenInput holds the data submitted to the token endpoint.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
IssueToken exchanges a confirmation code for an access token.

Description: A successful exchange stamps the last login time, which changes
the state every outstanding code is bound to, so each code works once.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed access token
  - error: ValidationError, NotFound (unknown username) or storage failures
*/
func (service *Service) IssueToken(context context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}

	if !service.codeProvider.Check(user.CodeSubject(), input.ConfirmationCode) {
		return "", apperr.FieldInvalid(FieldConfirmationCode, "Invalid or expired confirmation code")
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("auth_service_sign_failed: %w", err)
	}

	if err := service.userRepository.TouchLastLogin(context, user.ID, service.now().UTC().Truncate(time.Microsecond)); err != nil {
		return "", fmt.Errorf("auth_service_token_failed: %w", err)
	}

	metrics.TokensIssued.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "token_issued", slog.Int64("user_id", user.ID))

	return token, nil
}

// # Identity Resolution

// ResolveIdentity loads the current identity for a token subject.
// It satisfies the authentication middleware's resolver contract.
func (service *Service) ResolveIdentity(context context.Context, userID int64) (*sec.Identity, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}
