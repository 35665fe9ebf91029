// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// ResourceUser is the resource name used in NOT_FOUND errors.
const ResourceUser = "User"

// SelectColumns lists the users.account columns in [ScanUser] order.
var SelectColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// ScanUser hydrates a [User] from a row selected with [SelectColumns].
func ScanUser(row pgx.Row) (*User, error) {
	var (
		user User
		role string
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&role,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = sec.Role(role)
	return &user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		SelectColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, ResourceUser, "user_find_by_id_failed")
	}
	return user, nil
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		SelectColumns, schema.UserAccount.Table, schema.UserAccount.Username)

	user, err := ScanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, ResourceUser, "user_find_by_username_failed")
	}
	return user, nil
}

// FindByUsernameAndEmail implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsernameAndEmail(context context.Context, username, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		SelectColumns, schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, username, email))
	if err != nil {
		return nil, dberr.Wrap(err, ResourceUser, "user_find_by_pair_failed")
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: The database assigns the identity and the timestamps; they are
written back into user. An empty role falls back to [sec.RoleUser].

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: *dberr.Violation on a duplicate username or email
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s`,
		table.Table,
		table.Username, table.Email, table.FirstName, table.LastName, table.Bio, table.Role,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	if user.Role == "" {
		user.Role = sec.RoleUser
	}

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		string(user.Role),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, ResourceUser, "user_create_failed")
	}

	return nil
}

// TouchLastLogin implements [UserRepository].
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id int64, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, at)
	if err != nil {
		return dberr.Wrap(err, ResourceUser, "user_touch_last_login_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(ResourceUser)
	}
	return nil
}
