// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/critica/internal/perm"
	"github.com/taibuivan/critica/internal/platform/middleware"
	requestutil "github.com/taibuivan/critica/internal/platform/request"
	"github.com/taibuivan/critica/internal/platform/respond"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/pkg/pagination"
)

// Handler implements the review HTTP endpoints, mounted under a title.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] for reviews. The parent router supplies
// the titleID parameter.
//
// # Endpoints
//   - GET    /             : Paginated listing, public.
//   - POST   /             : Create, any authenticated account.
//   - GET    /{reviewID}   : Single review, public.
//   - PATCH  /{reviewID}   : Author, moderator or admin.
//   - DELETE /{reviewID}   : Author, moderator or admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{reviewID}", handler.get)
	router.Patch("/{reviewID}", handler.update)
	router.Delete("/{reviewID}", handler.delete)

	return router
}

// # Request Payloads

type createReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func actor(request *http.Request) perm.Actor {
	return perm.ActorFromClaims(middleware.GetUser(request.Context()))
}

/*
List returns a page of reviews for the parent title, oldest first.

GET /api/v1/titles/{titleID}/reviews

Response:
  - 200: Paginated []Review
  - 404: Unknown title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	reviews, total, err := handler.reviewService.List(request.Context(), requestutil.Param(request, "titleID"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns a single review.

GET /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review
  - 404: Unknown title or review
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.reviewService.Get(request.Context(),
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
Create attaches a new review to the parent title.

POST /api/v1/titles/{titleID}/reviews

Response:
  - 201: Created Review
  - 400: Score out of range or empty text
  - 401: Anonymous caller
  - 404: Unknown title
  - 409: Caller already reviewed this title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.reviewService.Create(request.Context(), actor(request),
		requestutil.Param(request, "titleID"), Input{Text: input.Text, Score: input.Score})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

/*
Update rewrites a review's text or score.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Updated Review
  - 401: Anonymous caller
  - 403: Caller is neither the author nor a moderator
  - 404: Unknown title or review
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.reviewService.Update(request.Context(), actor(request),
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
		UpdateInput{Text: input.Text, Score: input.Score})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
Delete removes a review and its comments.

DELETE /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 204: Deleted
  - 401: Anonymous caller
  - 403: Caller is neither the author nor a moderator
  - 404: Unknown title or review
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	err := handler.reviewService.Delete(request.Context(), actor(request),
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
