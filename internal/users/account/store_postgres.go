// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository].
//
// Single-row lookups and inserts are shared with the auth store.
type PostgresAccountRepository struct {
	*auth.PostgresUserRepository
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		PostgresUserRepository: auth.NewUserRepository(pool),
		pool:                   pool,
	}
}

/*
List returns one page of accounts.

Description: An empty search matches every account. Results are ordered by id
so pages are stable.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*auth.User: The page
  - int: Total matching accounts
  - error: Storage failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	table := schema.UserAccount
	where := fmt.Sprintf(`%s ILIKE $1`, table.Username)
	pattern := postgres.ContainsPattern(filter.Search)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, auth.ResourceUser, "account_count_failed")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $2 OFFSET $3`,
		auth.SelectColumns, table.Table, where, table.ID)

	rows, err := repository.pool.Query(context, query, pattern, filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, auth.ResourceUser, "account_list_failed")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, filter.Page.Limit)
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, auth.ResourceUser, "account_scan_failed")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, auth.ResourceUser, "account_list_failed")
	}

	return users, total, nil
}

// Update implements [AccountRepository].
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		table.Table,
		table.Username, table.Email, table.FirstName, table.LastName, table.Bio, table.Role, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		string(user.Role),
	).Scan(&user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, auth.ResourceUser, "account_update_failed")
	}

	return nil
}

// Delete implements [AccountRepository].
func (repository *PostgresAccountRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, auth.ResourceUser, "account_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(auth.ResourceUser)
	}
	return nil
}
