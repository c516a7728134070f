// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/critica/internal/core/taxonomy"
	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/ctxutil"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/pkg/pagination"
	"github.com/taibuivan/critica/pkg/pointer"
	"github.com/taibuivan/critica/pkg/uuid"
)

// Service implements the title catalog use cases.
type Service struct {
	repository Repository
	taxonomy   taxonomy.Repository
	ratings    RatingSource
	logger     *slog.Logger

	// now is injectable for the year-bound tests.
	now func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, taxonomyRepo taxonomy.Repository, ratings RatingSource, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		taxonomy:   taxonomyRepo,
		ratings:    ratings,
		logger:     logger,
		now:        time.Now,
	}
}

// # Read Path

/*
List returns a page of titles with derived ratings.

Description: The listing computes ratings in the aggregate query itself; the
Redis cache only serves the single-title read path.

Parameters:
  - context: context.Context
  - params: pagination.Params
  - filters: Filters

Returns:
  - []Title: Page of titles
  - int: Total matching count
  - err: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params, filters Filters) ([]Title, int, error) {
	titles, total, err := service.repository.List(context, params.Limit, params.Offset(), filters)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

/*
Get returns a single title with its derived rating.

Description: The rating is resolved read-through: cache hit wins, a miss
falls back to the aggregate-mean query and repopulates the cache. Cache
transport failures degrade to the direct query rather than failing the read.

Returns:
  - *Title: Hydrated entity with rating
  - err: NotFound or storage failures
*/
func (service *Service) Get(context context.Context, id string) (*Title, error) {
	title, err := service.repository.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	title.Rating = service.resolveRating(context, id)
	return title, nil
}

// resolveRating consults the cache first and falls back to the aggregate
// query. Cache errors are logged and ignored; the rating read must survive a
// Redis outage.
func (service *Service) resolveRating(context context.Context, titleID string) *float64 {
	if rating, hit, err := service.ratings.Get(context, titleID); err == nil && hit {
		return rating
	} else if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "rating_cache_get_failed",
			slog.String("title_id", titleID),
			slog.Any("error", err),
		)
	}

	rating, err := service.repository.AverageScore(context, titleID)
	if err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "rating_aggregate_failed",
			slog.String("title_id", titleID),
			slog.Any("error", err),
		)
		return nil
	}

	if err := service.ratings.Set(context, titleID, rating); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "rating_cache_set_failed",
			slog.String("title_id", titleID),
			slog.Any("error", err),
		)
	}

	return rating
}

// # Write Path

// UpsertInput holds the data for creating or rewriting a title.
type UpsertInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

/*
Create validates and persists a new title.

Description: The publication year must not lie in the future. Category and
genre slugs are resolved before the write; an unknown slug is a validation
error, not a storage fault.

Returns:
  - *Title: Created entity
  - err: Validation or storage errors
*/
func (service *Service) Create(context context.Context, input UpsertInput) (*Title, error) {
	title := &Title{
		ID:          uuid.New(),
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}

	if err := service.validateAndResolve(context, title, input); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, title); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	return title, nil
}

// UpdateInput holds partial-update fields. Nil pointers leave the stored
// value untouched; an explicit empty CategorySlug detaches the category.
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

/*
Update applies a partial update to a title.

Description: Supplied fields replace the stored ones; the genre set, when
present, is replaced wholesale.

Returns:
  - *Title: Updated entity with rating
  - err: NotFound, Validation or storage errors
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Title, error) {
	title, err := service.repository.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	// Merge the patch onto the stored state, then re-validate the whole.
	merged := UpsertInput{
		Name:        pointer.Fallback(input.Name, title.Name),
		Year:        pointer.Fallback(input.Year, title.Year),
		Description: pointer.Fallback(input.Description, title.Description),
	}

	if input.CategorySlug != nil {
		merged.CategorySlug = pointer.Val(input.CategorySlug)
	} else if title.Category != nil {
		merged.CategorySlug = title.Category.Slug
	}

	if input.GenreSlugs != nil {
		merged.GenreSlugs = pointer.Val(input.GenreSlugs)
	} else {
		for _, genre := range title.Genres {
			merged.GenreSlugs = append(merged.GenreSlugs, genre.Slug)
		}
	}

	title.Name = merged.Name
	title.Year = merged.Year
	title.Description = merged.Description

	if err := service.validateAndResolve(context, title, merged); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, title); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	title.Rating = service.resolveRating(context, id)
	return title, nil
}

/*
Delete removes a title and cascades to its reviews and comments.

Returns:
  - err: NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.repository.GetByID(context, id); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	// Drop the stale rating entry along with the title.
	if err := service.ratings.Invalidate(context, id); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "rating_cache_invalidate_failed",
			slog.String("title_id", id),
			slog.Any("error", err),
		)
	}

	return nil
}

// validateAndResolve checks the scalar fields and resolves taxonomy slugs
// into hydrated links on the entity.
func (service *Service) validateAndResolve(context context.Context, title *Title, input UpsertInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxTitleNameLength).
		Range(FieldYear, input.Year, MinYear, service.now().Year())

	if err := validator.Err(); err != nil {
		return err
	}

	title.Category = nil
	if input.CategorySlug != "" {
		category, err := service.taxonomy.GetCategoryBySlug(context, input.CategorySlug)
		if err != nil {
			return apperr.ValidationError(fmt.Sprintf("Unknown category slug %q", input.CategorySlug))
		}
		title.Category = category
	}

	title.Genres = make([]taxonomy.Genre, 0, len(input.GenreSlugs))
	for _, genreSlug := range input.GenreSlugs {
		genre, err := service.taxonomy.GetGenreBySlug(context, genreSlug)
		if err != nil {
			return apperr.ValidationError(fmt.Sprintf("Unknown genre slug %q", genreSlug))
		}
		title.Genres = append(title.Genres, *genre)
	}

	return nil
}
