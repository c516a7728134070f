// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
)

/*
Repository defines the persistence contract for reviews.

Implementations must surface unique-constraint violations from Create
untranslated so the service layer can classify a duplicate
(title, author) pair as a conflict.
*/
type Repository interface {

	/*
		ListByTitle returns a page of reviews for one title ordered by
		creation time, oldest first, plus the total count.

		Parameters:
		  - context: context.Context
		  - titleID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []Review: Page of reviews with author usernames resolved
		  - int: Total review count for the title
		  - error: Storage failures
	*/
	ListByTitle(context context.Context, titleID string, limit, offset int) ([]Review, int, error)

	/*
		GetByID returns a single review scoped to its title.

		Returns:
		  - *Review: Found review
		  - error: apperr.NotFound when absent, storage failures otherwise
	*/
	GetByID(context context.Context, titleID, reviewID string) (*Review, error)

	// Create persists a review. A duplicate (titleid, authorid) pair
	// surfaces as a unique violation.
	Create(context context.Context, review *Review) error

	// Update rewrites the text and score of an existing review.
	Update(context context.Context, review *Review) error

	// Delete removes a review. Its comments cascade away with it.
	Delete(context context.Context, titleID, reviewID string) error
}
