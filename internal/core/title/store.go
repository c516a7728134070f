// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import "context"

// Filters narrows title listings. Zero values disable a filter.
type Filters struct {
	CategorySlug string
	GenreSlug    string
	Year         int
	Search       string
}

// # Title Data Access

// Repository defines the data access contract for the title catalog.
type Repository interface {

	/*
		List returns a page of titles with their taxonomy links and derived
		ratings, plus the total matching count.

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
	List(context context.Context, limit, offset int, filters Filters) ([]Title, int, error)

	/*
		GetByID returns a single title with taxonomy links. The rating is
		NOT populated here; the service resolves it via [RatingSource].

		Returns:
		  - *Title: Hydrated entity
		  - error: apperr.NotFound or execution errors
	*/
	GetByID(context context.Context, id string) (*Title, error)

	/*
		AverageScore computes the aggregate-mean rating for a title,
		rounded to one decimal place.

		Returns:
		  - *float64: Mean score, or nil when the title has no reviews
		  - error: Execution errors
	*/
	AverageScore(context context.Context, titleID string) (*float64, error)

	/*
		Create persists a title and its genre links in a single transaction.

		Parameters:
		  - context: context.Context
		  - title: *Title (Category and Genres already resolved)
	*/
	Create(context context.Context, title *Title) error

	/*
		Update rewrites a title's fields and replaces its genre links in a
		single transaction.
	*/
	Update(context context.Context, title *Title) error

	/*
		Delete removes a title. Its reviews, and their comments, go with it
		via the storage layer's cascade rules.
	*/
	Delete(context context.Context, id string) error
}

// # Rating Cache

// RatingSource caches derived ratings between review writes.
//
// A miss is not an error: (nil, false, nil) means the caller should fall
// back to the aggregate query and repopulate.
type RatingSource interface {
	Get(context context.Context, titleID string) (rating *float64, hit bool, err error)
	Set(context context.Context, titleID string, rating *float64) error
	Invalidate(context context.Context, titleID string) error
}
