package taxonomy_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/critica/internal/core/taxonomy"
	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/pkg/pagination"
)

type fakeRepo struct {
	categories map[string]*taxonomy.Category // keyed by slug
	genres     map[string]*taxonomy.Genre
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: make(map[string]*taxonomy.Category),
		genres:     make(map[string]*taxonomy.Genre),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

func (repo *fakeRepo) ListCategories(_ context.Context, limit, _ int, _ string) ([]taxonomy.Category, int, error) {
	out := make([]taxonomy.Category, 0, limit)
	for _, category := range repo.categories {
		out = append(out, *category)
	}
	return out, len(repo.categories), nil
}

func (repo *fakeRepo) GetCategoryBySlug(_ context.Context, slug string) (*taxonomy.Category, error) {
	if category, ok := repo.categories[slug]; ok {
		return category, nil
	}
	return nil, apperr.NotFound("Category")
}

func (repo *fakeRepo) CreateCategory(_ context.Context, category *taxonomy.Category) error {
	if _, exists := repo.categories[category.Slug]; exists {
		return uniqueViolation()
	}
	repo.categories[category.Slug] = category
	return nil
}

func (repo *fakeRepo) DeleteCategory(_ context.Context, slug string) error {
	delete(repo.categories, slug)
	return nil
}

func (repo *fakeRepo) ListGenres(_ context.Context, limit, _ int, _ string) ([]taxonomy.Genre, int, error) {
	out := make([]taxonomy.Genre, 0, limit)
	for _, genre := range repo.genres {
		out = append(out, *genre)
	}
	return out, len(repo.genres), nil
}

func (repo *fakeRepo) GetGenreBySlug(_ context.Context, slug string) (*taxonomy.Genre, error) {
	if genre, ok := repo.genres[slug]; ok {
		return genre, nil
	}
	return nil, apperr.NotFound("Genre")
}

func (repo *fakeRepo) CreateGenre(_ context.Context, genre *taxonomy.Genre) error {
	if _, exists := repo.genres[genre.Slug]; exists {
		return uniqueViolation()
	}
	repo.genres[genre.Slug] = genre
	return nil
}

func (repo *fakeRepo) DeleteGenre(_ context.Context, slug string) error {
	delete(repo.genres, slug)
	return nil
}

func newTestService() (*taxonomy.Service, *fakeRepo) {
	repo := newFakeRepo()
	return taxonomy.NewService(repo, slog.Default()), repo
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	service, _ := newTestService()

	category, err := service.CreateCategory(context.Background(), taxonomy.CreateInput{
		Name: "Science Fiction",
	})

	require.NoError(t, err)
	assert.Equal(t, "science-fiction", category.Slug)
}

func TestCreateCategory_RejectsBadSlug(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateCategory(context.Background(), taxonomy.CreateInput{
		Name: "Movies",
		Slug: "Not A Slug!",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestCreateCategory_SlugConflict(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateCategory(context.Background(), taxonomy.CreateInput{Name: "Movies"})
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), taxonomy.CreateInput{Name: "Movies"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

func TestDeleteGenre_Unknown(t *testing.T) {
	service, _ := newTestService()

	err := service.DeleteGenre(context.Background(), "missing")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

func TestListGenres(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateGenre(context.Background(), taxonomy.CreateInput{Name: "Drama"})
	require.NoError(t, err)

	genres, total, err := service.ListGenres(context.Background(), pagination.Params{Page: 1, Limit: 20}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, genres, 1)
}
