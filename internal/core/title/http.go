// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/critica/internal/platform/middleware"
	requestutil "github.com/taibuivan/critica/internal/platform/request"
	"github.com/taibuivan/critica/internal/platform/respond"
	"github.com/taibuivan/critica/internal/platform/sec"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/pkg/convert"
	"github.com/taibuivan/critica/pkg/pagination"
)

// Handler implements the title catalog HTTP endpoints.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// Routes returns a [chi.Router] for the title catalog. Reads are public;
// mutations require an admin.
//
// # Endpoints
//   - GET    /           : Paginated listing with filters.
//   - GET    /{titleID}  : Single title with derived rating.
//   - POST   /           : Admin creation.
//   - PATCH  /{titleID}  : Admin partial update.
//   - DELETE /{titleID}  : Admin deletion (cascades to reviews).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{titleID}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Patch("/{titleID}", handler.update)
		r.Delete("/{titleID}", handler.delete)
	})

	return router
}

// # Request Payloads

type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genres"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genres"`
}

/*
List returns a page of titles with derived ratings.

GET /api/v1/titles?page=&limit=&category=&genre=&year=&search=

Response:
  - 200: Paginated []Title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filters := Filters{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Year:         convert.ToInt(query.Get("year")),
		Search:       query.Get("search"),
	}

	titles, total, err := handler.titleService.List(request.Context(), params, filters)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns a single title.

GET /api/v1/titles/{titleID}

Response:
  - 200: Title with rating
  - 404: Unknown title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	title, err := handler.titleService.Get(request.Context(), requestutil.Param(request, "titleID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Create adds a new title to the catalog.

POST /api/v1/titles

Response:
  - 201: Created Title
  - 400: Validation failure (future year, unknown slug)
  - 403: Insufficient permissions
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.titleService.Create(request.Context(), UpsertInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
Update applies a partial update to a title.

PATCH /api/v1/titles/{titleID}

Response:
  - 200: Updated Title
  - 400: Validation failure
  - 404: Unknown title
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	title, err := handler.titleService.Update(request.Context(), requestutil.Param(request, "titleID"), UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Delete removes a title and cascades to its reviews and comments.

DELETE /api/v1/titles/{titleID}

Response:
  - 204: Deleted
  - 404: Unknown title
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.titleService.Delete(request.Context(), requestutil.Param(request, "titleID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
