// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// Repository defines the persistence contract for comments.
type Repository interface {

	// ListByReview returns a page of comments for one review ordered by
	// creation time, oldest first, plus the total count.
	ListByReview(context context.Context, reviewID string, limit, offset int) ([]Comment, int, error)

	// GetByID returns a single comment scoped to its review. Absence is
	// apperr.NotFound.
	GetByID(context context.Context, reviewID, commentID string) (*Comment, error)

	// Create persists a comment.
	Create(context context.Context, comment *Comment) error

	// Update rewrites the text of an existing comment.
	Update(context context.Context, comment *Comment) error

	// Delete removes a comment.
	Delete(context context.Context, reviewID, commentID string) error
}
