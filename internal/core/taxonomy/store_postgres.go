package taxonomy

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critica/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Categories

func (repository *PostgresRepository) ListCategories(context context.Context, limit, offset int, search string) ([]Category, int, error) {
	const query = `
		SELECT id, name, slug, createdat
		FROM core.category
		WHERE ($3 = '' OR name ILIKE '%' || $3 || '%')
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(context, query, limit, offset, search)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]Category, 0, limit)
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories_rows")
	}

	const countQuery = `SELECT COUNT(*) FROM core.category WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	return categories, total, nil
}

func (repository *PostgresRepository) GetCategoryBySlug(context context.Context, slug string) (*Category, error) {
	const query = `SELECT id, name, slug, createdat FROM core.category WHERE slug = $1`

	category := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(
		&category.ID, &category.Name, &category.Slug, &category.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return category, nil
}

func (repository *PostgresRepository) CreateCategory(context context.Context, category *Category) error {
	const query = `INSERT INTO core.category (id, name, slug, createdat) VALUES ($1, $2, $3, NOW())`

	_, err := repository.db.Exec(context, query, category.ID, category.Name, category.Slug)
	return err
}

func (repository *PostgresRepository) DeleteCategory(context context.Context, slug string) error {
	// core.title.categoryid is ON DELETE SET NULL: removing a category must
	// never take its titles with it.
	const query = `DELETE FROM core.category WHERE slug = $1`

	if _, err := repository.db.Exec(context, query, slug); err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	return nil
}

// # Genres

func (repository *PostgresRepository) ListGenres(context context.Context, limit, offset int, search string) ([]Genre, int, error) {
	const query = `
		SELECT id, name, slug, createdat
		FROM core.genre
		WHERE ($3 = '' OR name ILIKE '%' || $3 || '%')
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(context, query, limit, offset, search)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]Genre, 0, limit)
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres_rows")
	}

	const countQuery = `SELECT COUNT(*) FROM core.genre WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetGenreBySlug(context context.Context, slug string) (*Genre, error) {
	const query = `SELECT id, name, slug, createdat FROM core.genre WHERE slug = $1`

	genre := &Genre{}
	err := repository.db.QueryRow(context, query, slug).Scan(
		&genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre_by_slug")
	}

	return genre, nil
}

func (repository *PostgresRepository) CreateGenre(context context.Context, genre *Genre) error {
	const query = `INSERT INTO core.genre (id, name, slug, createdat) VALUES ($1, $2, $3, NOW())`

	_, err := repository.db.Exec(context, query, genre.ID, genre.Name, genre.Slug)
	return err
}

func (repository *PostgresRepository) DeleteGenre(context context.Context, slug string) error {
	// core.titlegenre rows cascade; titles themselves are untouched.
	const query = `DELETE FROM core.genre WHERE slug = $1`

	if _, err := repository.db.Exec(context, query, slug); err != nil {
		return dberr.Wrap(err, "delete_genre")
	}
	return nil
}
