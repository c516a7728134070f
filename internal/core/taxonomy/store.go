package taxonomy

import "context"

type Repository interface {
	ListCategories(context context.Context, limit, offset int, search string) ([]Category, int, error)
	GetCategoryBySlug(context context.Context, slug string) (*Category, error)
	CreateCategory(context context.Context, category *Category) error
	DeleteCategory(context context.Context, slug string) error

	ListGenres(context context.Context, limit, offset int, search string) ([]Genre, int, error)
	GetGenreBySlug(context context.Context, slug string) (*Genre, error)
	CreateGenre(context context.Context, genre *Genre) error
	DeleteGenre(context context.Context, slug string) error
}
