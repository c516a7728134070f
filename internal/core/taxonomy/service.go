package taxonomy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/dberr"
	"github.com/taibuivan/critica/internal/platform/validate"
	"github.com/taibuivan/critica/pkg/pagination"
	"github.com/taibuivan/critica/pkg/slug"
	"github.com/taibuivan/critica/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput covers both categories and genres: a display name plus an
// optional slug. An empty slug is derived from the name.
type CreateInput struct {
	Name string
	Slug string
}

func (input *CreateInput) validateAndNormalize() error {
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Slug(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, MaxSlugLength)

	return v.Err()
}

// # Categories

func (service *Service) ListCategories(context context.Context, params pagination.Params, search string) ([]Category, int, error) {
	return service.repo.ListCategories(context, params.Limit, params.Offset(), search)
}

func (service *Service) GetCategory(context context.Context, slugValue string) (*Category, error) {
	return service.repo.GetCategoryBySlug(context, slugValue)
}

func (service *Service) CreateCategory(context context.Context, input CreateInput) (*Category, error) {
	if err := input.validateAndNormalize(); err != nil {
		return nil, err
	}

	category := &Category{
		ID:   uuid.New(),
		Name: input.Name,
		Slug: input.Slug,
	}

	if err := service.repo.CreateCategory(context, category); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Category slug already exists")
		}
		return nil, fmt.Errorf("taxonomy_service_create_category_failed: %w", err)
	}

	return category, nil
}

func (service *Service) DeleteCategory(context context.Context, slugValue string) error {
	if _, err := service.repo.GetCategoryBySlug(context, slugValue); err != nil {
		return err
	}
	return service.repo.DeleteCategory(context, slugValue)
}

// # Genres

func (service *Service) ListGenres(context context.Context, params pagination.Params, search string) ([]Genre, int, error) {
	return service.repo.ListGenres(context, params.Limit, params.Offset(), search)
}

func (service *Service) GetGenre(context context.Context, slugValue string) (*Genre, error) {
	return service.repo.GetGenreBySlug(context, slugValue)
}

func (service *Service) CreateGenre(context context.Context, input CreateInput) (*Genre, error) {
	if err := input.validateAndNormalize(); err != nil {
		return nil, err
	}

	genre := &Genre{
		ID:   uuid.New(),
		Name: input.Name,
		Slug: input.Slug,
	}

	if err := service.repo.CreateGenre(context, genre); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Genre slug already exists")
		}
		return nil, fmt.Errorf("taxonomy_service_create_genre_failed: %w", err)
	}

	return genre, nil
}

func (service *Service) DeleteGenre(context context.Context, slugValue string) error {
	if _, err := service.repo.GetGenreBySlug(context, slugValue); err != nil {
		return err
	}
	return service.repo.DeleteGenre(context, slugValue)
}
