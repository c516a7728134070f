// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

const commentColumns = `c.id, c.reviewid, c.authorid, a.username, c.text, c.createdat, c.updatedat`

func scanComment(row pgx.Row) (*Comment, error) {
	var comment Comment
	err := row.Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByReview returns a page of comments for one review ordered by
// creation time, plus the total count.
func (repository *PostgresRepository) ListByReview(context stdctx.Context, reviewID string, limit, offset int) ([]Comment, int, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM social.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.reviewid = $1
		ORDER BY c.createdat
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("comment_list_failed: %w", err), "comment_list_failed")
	}
	defer rows.Close()

	comments := make([]Comment, 0, limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("comment_scan_failed: %w", err), "comment_scan_failed")
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("comment_rows_failed: %w", err), "comment_rows_failed")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM social.comment WHERE reviewid = $1`
	if err := repository.db.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("comment_count_failed: %w", err), "comment_count_failed")
	}

	return comments, total, nil
}

// GetByID returns a single comment scoped to its review.
func (repository *PostgresRepository) GetByID(context stdctx.Context, reviewID, commentID string) (*Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM social.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.reviewid = $1 AND c.id = $2`

	comment, err := scanComment(repository.db.QueryRow(context, query, reviewID, commentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, dberr.Wrap(fmt.Errorf("comment_get_failed: %w", err), "comment_get_failed")
	}

	return comment, nil
}

// Create persists a comment.
func (repository *PostgresRepository) Create(context stdctx.Context, comment *Comment) error {
	query := `
		INSERT INTO social.comment (id, reviewid, authorid, text, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.db.Exec(context, query,
		comment.ID, comment.ReviewID, comment.AuthorID,
		comment.Text, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("comment_create_failed: %w", err), "comment_create_failed")
	}

	return nil
}

// Update rewrites the text of an existing comment.
func (repository *PostgresRepository) Update(context stdctx.Context, comment *Comment) error {
	query := `
		UPDATE social.comment
		SET text = $1, updatedat = $2
		WHERE id = $3`

	tag, err := repository.db.Exec(context, query, comment.Text, comment.UpdatedAt, comment.ID)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("comment_update_failed: %w", err), "comment_update_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// Delete removes a comment.
func (repository *PostgresRepository) Delete(context stdctx.Context, reviewID, commentID string) error {
	query := `DELETE FROM social.comment WHERE reviewid = $1 AND id = $2`

	tag, err := repository.db.Exec(context, query, reviewID, commentID)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("comment_delete_failed: %w", err), "comment_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
