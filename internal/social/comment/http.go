// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

// Handler implements the comment HTTP endpoints, mounted under a review.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] for comments. The parent router supplies
// the titleID and reviewID parameters.
//
// # Endpoints
//   - GET    /              : Paginated listing, public.
//   - POST   /              : Create, any authenticated account.
//   - GET    /{commentID}   : Single comment, public.
//   - PATCH  /{commentID}   : Author, moderator or admin.
//   - DELETE /{commentID}   : Author, moderator or admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{commentID}", handler.get)
	router.Patch("/{commentID}", handler.update)
	router.Delete("/{commentID}", handler.delete)

	return router
}

type createCommentRequest struct {
	Text string `json:"text"`
}

type updateCommentRequest struct {
	Text *string `json:"text"`
}

func actor(request *http.Request) perm.Actor {
	return perm.ActorFromClaims(middleware.GetUser(request.Context()))
}

func params(request *http.Request) (titleID, reviewID string) {
	return requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID")
}

// GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	titleID, reviewID := params(request)

	comments, total, err := handler.commentService.List(request.Context(), titleID, reviewID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(page.Page, page.Limit, total))
}

// GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID := params(request)

	comment, err := handler.commentService.Get(request.Context(), titleID, reviewID,
		requestutil.Param(request, "commentID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	titleID, reviewID := params(request)
	comment, err := handler.commentService.Create(request.Context(), actor(request), titleID, reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	titleID, reviewID := params(request)
	comment, err := handler.commentService.Update(request.Context(), actor(request), titleID, reviewID,
		requestutil.Param(request, "commentID"), input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID := params(request)

	err := handler.commentService.Delete(request.Context(), actor(request), titleID, reviewID,
		requestutil.Param(request, "commentID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
