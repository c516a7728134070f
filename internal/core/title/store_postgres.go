// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critica/internal/core/taxonomy"
	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a page of titles with category links and derived ratings.

Description: Ratings come from a correlated aggregate over social.review,
rounded to one decimal place. Genre links are hydrated in a second query
over the page's IDs to avoid row multiplication.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int
  - filters: Filters

Returns:
  - []Title: Page of hydrated titles
  - int: Total matching count
  - error: Execution errors
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int, filters Filters) ([]Title, int, error) {
	const query = `
		SELECT t.id, t.name, t.year, t.description, t.createdat,
		       c.id, c.name, c.slug,
		       (SELECT ROUND(AVG(r.score)::numeric, 1) FROM social.review r WHERE r.titleid = t.id)
		FROM core.title t
		LEFT JOIN core.category c ON c.id = t.categoryid
		WHERE ($3 = '' OR c.slug = $3)
		  AND ($4 = '' OR EXISTS (
		        SELECT 1 FROM core.titlegenre tg
		        JOIN core.genre g ON g.id = tg.genreid
		        WHERE tg.titleid = t.id AND g.slug = $4))
		  AND ($5 = 0 OR t.year = $5)
		  AND ($6 = '' OR t.name ILIKE '%' || $6 || '%')
		ORDER BY t.name
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query,
		limit, offset, filters.CategorySlug, filters.GenreSlug, filters.Year, filters.Search)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]Title, 0, limit)
	for rows.Next() {
		var title Title
		var categoryID, categoryName, categorySlug *string

		err := rows.Scan(
			&title.ID, &title.Name, &title.Year, &title.Description, &title.CreatedAt,
			&categoryID, &categoryName, &categorySlug,
			&title.Rating,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}

		if categoryID != nil {
			title.Category = &taxonomy.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
		}
		title.Genres = make([]taxonomy.Genre, 0)
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles_rows")
	}

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, 0, err
	}

	const countQuery = `
		SELECT COUNT(*)
		FROM core.title t
		LEFT JOIN core.category c ON c.id = t.categoryid
		WHERE ($1 = '' OR c.slug = $1)
		  AND ($2 = '' OR EXISTS (
		        SELECT 1 FROM core.titlegenre tg
		        JOIN core.genre g ON g.id = tg.genreid
		        WHERE tg.titleid = t.id AND g.slug = $2))
		  AND ($3 = 0 OR t.year = $3)
		  AND ($4 = '' OR t.name ILIKE '%' || $4 || '%')`

	var total int
	err = repository.pool.QueryRow(context, countQuery,
		filters.CategorySlug, filters.GenreSlug, filters.Year, filters.Search).Scan(&total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	return titles, total, nil
}

// attachGenres hydrates the Genres slice for every title in the page.
func (repository *PostgresRepository) attachGenres(context context.Context, titles []Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]string, 0, len(titles))
	index := make(map[string]*Title, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
		index[titles[i].ID] = &titles[i]
	}

	const query = `
		SELECT tg.titleid, g.id, g.name, g.slug
		FROM core.titlegenre tg
		JOIN core.genre g ON g.id = tg.genreid
		WHERE tg.titleid = ANY($1)
		ORDER BY g.name`

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "attach_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var titleID string
		var genre taxonomy.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if title, ok := index[titleID]; ok {
			title.Genres = append(title.Genres, genre)
		}
	}

	return rows.Err()
}

/*
GetByID returns a single title with its taxonomy links.

Description: The rating is intentionally left nil here; the service layer
resolves it through the cache.

Returns:
  - *Title: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Title, error) {
	const query = `
		SELECT t.id, t.name, t.year, t.description, t.createdat,
		       c.id, c.name, c.slug
		FROM core.title t
		LEFT JOIN core.category c ON c.id = t.categoryid
		WHERE t.id = $1`

	title := &Title{}
	var categoryID, categoryName, categorySlug *string

	err := repository.pool.QueryRow(context, query, id).Scan(
		&title.ID, &title.Name, &title.Year, &title.Description, &title.CreatedAt,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, fmt.Errorf("postgres_title_repo_get_failed: %w", err)
	}

	if categoryID != nil {
		title.Category = &taxonomy.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	page := []Title{*title}
	if err := repository.attachGenres(context, page); err != nil {
		return nil, err
	}

	return &page[0], nil
}

/*
AverageScore computes the mean review score for a title.

Description: ROUND(AVG(score)::numeric, 1) is the single documented rounding
policy for ratings across the platform. AVG over zero rows yields SQL NULL,
scanned as a nil pointer.

Returns:
  - *float64: Mean score, or nil when the title has no reviews
  - error: Execution errors
*/
func (repository *PostgresRepository) AverageScore(context context.Context, titleID string) (*float64, error) {
	const query = `SELECT ROUND(AVG(score)::numeric, 1) FROM social.review WHERE titleid = $1`

	var rating *float64
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&rating); err != nil {
		return nil, fmt.Errorf("postgres_title_repo_average_failed: %w", err)
	}

	return rating, nil
}

/*
Create persists a title and its genre links in a single transaction.

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	const insertTitle = `
		INSERT INTO core.title (id, name, year, description, categoryid, createdat)
		VALUES ($1, $2, $3, $4, $5, NOW())`

	var categoryID *string
	if title.Category != nil {
		categoryID = &title.Category.ID
	}

	_, err = transaction.Exec(context, insertTitle,
		title.ID, title.Name, title.Year, title.Description, categoryID)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_create_failed: %w", err)
	}

	if err := insertGenreLinks(context, transaction, title); err != nil {
		return err
	}

	return transaction.Commit(context)
}

/*
Update rewrites a title's fields and replaces its genre links.

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, title *Title) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	const updateTitle = `
		UPDATE core.title
		SET name = $2, year = $3, description = $4, categoryid = $5
		WHERE id = $1`

	var categoryID *string
	if title.Category != nil {
		categoryID = &title.Category.ID
	}

	_, err = transaction.Exec(context, updateTitle,
		title.ID, title.Name, title.Year, title.Description, categoryID)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_update_failed: %w", err)
	}

	// Replace the genre set wholesale.
	if _, err := transaction.Exec(context, `DELETE FROM core.titlegenre WHERE titleid = $1`, title.ID); err != nil {
		return fmt.Errorf("postgres_title_repo_clear_genres_failed: %w", err)
	}
	if err := insertGenreLinks(context, transaction, title); err != nil {
		return err
	}

	return transaction.Commit(context)
}

func insertGenreLinks(context context.Context, transaction pgx.Tx, title *Title) error {
	const insertLink = `INSERT INTO core.titlegenre (titleid, genreid) VALUES ($1, $2)`

	for _, genre := range title.Genres {
		if _, err := transaction.Exec(context, insertLink, title.ID, genre.ID); err != nil {
			return fmt.Errorf("postgres_title_repo_link_genre_failed: %w", err)
		}
	}
	return nil
}

/*
Delete removes a title.

Description: ON DELETE CASCADE removes the title's genre links, reviews, and
the reviews' comments in the same statement.

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM core.title WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_title_repo_delete_failed: %w", err)
	}
	return nil
}
