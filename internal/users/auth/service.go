// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the registration and token-exchange flows.

The handshake is passwordless: signup binds an email to a username, a
confirmation code proving email ownership travels out-of-band, and a valid
code is exchanged for a signed access/refresh token pair.

Architecture:

  - Service: Orchestrates signup and code exchange.
  - Repository: Abstracted interface for the Postgres user store.
  - Security: HMAC-bound confirmation codes and RSA-signed JWTs.

Confirmation codes carry no server-side state: validity is a pure function of
the user's current (id, role, superuser) fingerprint plus an expiry window, so
any privilege change silently invalidates every outstanding code.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/dberr"
	"github.com/taibuivan/critica/internal/platform/mailer"
	"github.com/taibuivan/critica/internal/platform/sec"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for minting the signed token pair.
type TokenProvider interface {
	// GeneratePair creates a signed access/refresh token pair for the subject.
	//
	// # Parameters
	//   - subject: The identity minted into the tokens.
	//   - accessTTL: Lifetime of the access token.
	//   - refreshTTL: Lifetime of the refresh token.
	//
	// # Returns
	//   - The signed pair, or an err if signing fails.
	GeneratePair(subject sec.TokenSubject, accessTTL, refreshTTL time.Duration) (sec.TokenPair, error)
}

// CodeAuthenticator defines the contract for issuing and checking
// confirmation codes bound to mutable user state.
type CodeAuthenticator interface {
	Issue(binding sec.CodeBinding) string
	Check(binding sec.CodeBinding, code string) bool
}

// Service implements the registration and token-exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code binding,
// signup conflict handling, or token minting must be reviewed carefully.
type Service struct {
	userRepository UserRepository
	codes          CodeAuthenticator
	tokenProvider  TokenProvider
	notifier       mailer.Notifier
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codes CodeAuthenticator,
	tokenProv TokenProvider,
	notifier mailer.Notifier,
) *Service {
	return &Service{
		userRepository: userRepo,
		codes:          codes,
		tokenProvider:  tokenProv,
		notifier:       notifier,
	}
}

// # Signup Flow

// SignupInput holds the data required to request registration.
type SignupInput struct {
	Username string
	Email    string
}

// SignupResult echoes the accepted identity back to the caller.
// The confirmation code itself never appears in the response body.
type SignupResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

/*
RequestSignup registers a new member or re-issues a code for a pending one.

Description: Validates the identity, resolves uniqueness conflicts, issues a
confirmation code bound to the user's current state, and dispatches it by
email. Calling signup again with the same (username, email) pair is idempotent
and simply sends a fresh code.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *SignupResult: Accepted (username, email) pair
  - err: Validation, Conflict, Dependency (mail dispatch) or storage errors
*/
func (service *Service) RequestSignup(context context.Context, input SignupInput) (*SignupResult, error) {

	// Reject the reserved handle and malformed identities up front.
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.resolveSignupUser(context, input)
	if err != nil {
		return nil, err
	}

	// Bind the code to the user's current state so later privilege changes
	// invalidate it without any revocation bookkeeping.
	code := service.codes.Issue(user.Binding())

	// Dispatch failures surface to the caller. Signup is not complete until
	// the user can actually receive the code; there is no retry here.
	if err := service.notifier.SendConfirmationCode(context, user.Email, user.Username, code); err != nil {
		return nil, apperr.Dependency("email", err)
	}

	return &SignupResult{Username: user.Username, Email: user.Email}, nil
}

// resolveSignupUser finds the pending user matching the exact (username,
// email) pair, or creates a fresh one. A partial match on either field is an
// identity conflict: registration never merges or overwrites accounts.
func (service *Service) resolveSignupUser(context context.Context, input SignupInput) (*User, error) {

	// 1. Exact pair match is the idempotent re-signup path.
	existing, err := service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		if existing.Email == input.Email {
			return existing, nil
		}
		return nil, apperr.Conflict("Username is already taken")
	}

	// 2. The email may still be held by a different username.
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// 3. Fresh registration with the default role.
	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		// A concurrent signup may have won the race between our lookups and
		// this insert. The unique constraint is the arbiter.
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Username or email is already registered")
		}
		return nil, fmt.Errorf("auth_service_signup_create_failed: %w", err)
	}

	return user, nil
}

// # Token Exchange

// ExchangeInput holds the credentials for the code-to-token exchange.
type ExchangeInput struct {
	Username         string
	ConfirmationCode string
}

/*
ExchangeCode trades a valid confirmation code for a signed token pair.

Description: Resolves the user, checks the code against the user's current
state fingerprint, and mints a short-lived access token plus a long-lived
refresh token.

Parameters:
  - context: context.Context
  - input: ExchangeInput

Returns:
  - sec.TokenPair: Signed access and refresh tokens
  - err: NotFound (unknown username), ValidationError (bad or expired code),
    or signing failures
*/
func (service *Service) ExchangeCode(context context.Context, input ExchangeInput) (sec.TokenPair, error) {

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return sec.TokenPair{}, apperr.NotFound("User")
	}

	// The code value itself is never logged, only the outcome.
	if !service.codes.Check(user.Binding(), input.ConfirmationCode) {
		return sec.TokenPair{}, apperr.ValidationError("Invalid or expired confirmation code")
	}

	pair, err := service.tokenProvider.GeneratePair(user.TokenSubject(), AccessTokenTTL, RefreshTokenTTL)
	if err != nil {
		return sec.TokenPair{}, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return pair, nil
}
