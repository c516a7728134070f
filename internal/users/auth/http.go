// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for the signup handshake.

It implements the two public entry points of the registration lifecycle:
requesting a confirmation code and exchanging it for session tokens.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Verification: Enforces presence checks before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/critica/internal/platform/request"
	"github.com/taibuivan/critica/internal/platform/respond"
	"github.com/taibuivan/critica/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the public registration entry points. Both endpoints
// are anonymous: the caller proves identity via the emailed code, not a
// bearer token.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup : Requests registration and a confirmation code.
//   - POST /token  : Exchanges a confirmation code for a token pair.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
Signup requests registration and dispatches a confirmation code.

POST /api/v1/auth/signup

Description: Validates the identity, creates or re-resolves the pending user,
and emails a confirmation code. The code never appears in the response.

Request:
  - Body: signupRequest (Username, Email)

Response:
  - 200: SignupResult: Accepted (username, email) pair
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email held by a different identity
  - 502: DependencyFailed: Confirmation email could not be dispatched
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.authService.RequestSignup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Token exchanges a confirmation code for a signed token pair.

POST /api/v1/auth/token

Description: Validates the code against the user's current state and mints
an access/refresh token pair.

Request:
  - Body: tokenRequest (Username, ConfirmationCode)

Response:
  - 200: TokenPair: Access and refresh tokens
  - 400: ErrInvalidJSON: Missing fields or invalid/expired code
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.ExchangeCode(request.Context(), ExchangeInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}
