// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements administrative user management and the
self-service profile surface.

It operates on the same users.account table as the auth package but covers
the post-registration lifecycle: listing, administrative creation and edits,
deletion, and the authenticated "me" endpoint.
*/
package account

import (
	"context"

	"github.com/taibuivan/critica/internal/users/auth"
)

// # Account Data Access

// Repository defines the data access contract for managing user accounts.
type Repository interface {

	/*
		List returns a page of accounts ordered by username, with the total
		count for pagination metadata.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int
		  - search: string (optional username/email substring filter)

		Returns:
		  - []auth.User: Page of accounts
		  - int: Total matching count
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int, search string) ([]auth.User, int, error)

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - *auth.User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *auth.User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Create persists an administratively created account. Unique
		violations surface unmapped for the service to classify.
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update persists changes to an account's mutable fields, including
		the role.
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete permanently removes an account. The account's reviews and
		comments are removed by the storage layer's cascade rules.
	*/
	Delete(context context.Context, username string) error
}
