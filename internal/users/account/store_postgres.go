// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critica/internal/platform/apperr"
	"github.com/taibuivan/critica/internal/users/auth"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const accountColumns = `id, username, email, firstname, lastname, bio, role, issuperuser, createdat, updatedat`

func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
List returns a page of accounts ordered by username.

Description: The optional search filter matches a case-insensitive substring
of the username or email.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int
  - search: string

Returns:
  - []auth.User: Page of accounts
  - int: Total matching count
  - error: Execution errors
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int, search string) ([]auth.User, int, error) {
	listQuery := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE ($3 = '' OR username ILIKE '%' || $3 || '%' OR email ILIKE '%' || $3 || '%')
		ORDER BY username
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, listQuery, limit, offset, search)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]auth.User, 0, limit)
	for rows.Next() {
		user, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	const countQuery = `
		SELECT COUNT(*)
		FROM users.account
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	return users, total, nil
}

/*
FindByUsername retrieves an account by its unique username.

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE username = $1`

	user, err := scanAccount(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves an account by its primary key.

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
Create persists an administratively created account.

Returns:
  - error: Constraint violations (unmapped) or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, firstname, lastname, bio, role, issuperuser, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists changes to an account's mutable fields.

Returns:
  - error: Constraint violations (unmapped) or execution errors
*/
func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET email = $2, firstname = $3, lastname = $4, bio = $5, role = $6, updatedat = $7
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete permanently removes an account by username.

Description: ON DELETE CASCADE on social.review and social.comment removes
the account's contributions in the same statement.

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) Delete(context context.Context, username string) error {
	const query = `DELETE FROM users.account WHERE username = $1`

	_, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}

	return nil
}
