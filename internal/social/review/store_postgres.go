// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	stdctx "context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/platform/dberr"
)

// PostgresRepository implements [Repository] backed by PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a new [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// reviewColumns joins the author's username at read time so responses
// never expose raw account identifiers.
const reviewColumns = `r.id, r.titleid, r.authorid, a.username, r.text, r.score, r.createdat, r.updatedat`

func scanReview(row pgx.Row) (*Review, error) {
	var review Review
	err := row.Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByTitle returns a page of reviews for one title ordered by creation
// time, plus the total count.
func (repository *PostgresRepository) ListByTitle(context stdctx.Context, titleID string, limit, offset int) ([]Review, int, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM social.review r
		JOIN users.account a ON a.id = r.authorid
		WHERE r.titleid = $1
		ORDER BY r.createdat
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("review_list_failed: %w", err), "review_list_failed")
	}
	defer rows.Close()

	reviews := make([]Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("review_scan_failed: %w", err), "review_scan_failed")
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("review_rows_failed: %w", err), "review_rows_failed")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM social.review WHERE titleid = $1`
	if err := repository.db.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("review_count_failed: %w", err), "review_count_failed")
	}

	return reviews, total, nil
}

// GetByID returns a single review scoped to its title.
func (repository *PostgresRepository) GetByID(context stdctx.Context, titleID, reviewID string) (*Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM social.review r
		JOIN users.account a ON a.id = r.authorid
		WHERE r.titleid = $1 AND r.id = $2`

	review, err := scanReview(repository.db.QueryRow(context, query, titleID, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, dberr.Wrap(fmt.Errorf("review_get_failed: %w", err), "review_get_failed")
	}

	return review, nil
}

// Create persists a review. The unique index on (titleid, authorid) is
// the arbiter for duplicate submissions; its violation passes through
// unwrapped for the service to classify.
func (repository *PostgresRepository) Create(context stdctx.Context, review *Review) error {
	query := `
		INSERT INTO social.review (id, titleid, authorid, text, score, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := repository.db.Exec(context, query,
		review.ID, review.TitleID, review.AuthorID,
		review.Text, review.Score, review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return err
		}
		return dberr.Wrap(fmt.Errorf("review_create_failed: %w", err), "review_create_failed")
	}

	return nil
}

// Update rewrites the text and score of an existing review.
func (repository *PostgresRepository) Update(context stdctx.Context, review *Review) error {
	query := `
		UPDATE social.review
		SET text = $1, score = $2, updatedat = $3
		WHERE id = $4`

	tag, err := repository.db.Exec(context, query,
		review.Text, review.Score, review.UpdatedAt, review.ID,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("review_update_failed: %w", err), "review_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// Delete removes a review. Comments cascade away at the storage level.
func (repository *PostgresRepository) Delete(context stdctx.Context, titleID, reviewID string) error {
	query := `DELETE FROM social.review WHERE titleid = $1 AND id = $2`

	tag, err := repository.db.Exec(context, query, titleID, reviewID)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("review_delete_failed: %w", err), "review_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}
