// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, kind Kind, search string, page pagination.Params) ([]*Term, int, error) {
	table := kind.table()
	pattern := postgres.ContainsPattern(search)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s ILIKE $1`, table.Table, table.Name)
	if err := repository.db.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource(), "count_terms")
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s ILIKE $1 ORDER BY %s, %s LIMIT $2 OFFSET $3`,
		table.ID, table.Name, table.Slug, table.Table, table.Name, table.Name, table.ID)

	rows, err := repository.db.Query(context, query, pattern, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource(), "list_terms")
	}
	defer rows.Close()

	terms := make([]*Term, 0, page.Limit)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, kind.Resource(), "scan_term")
		}
		terms = append(terms, term)
	}

	return terms, total, dberr.Wrap(rows.Err(), kind.Resource(), "list_terms")
}

func (repository *PostgresRepository) FindBySlug(context context.Context, kind Kind, slug string) (*Term, error) {
	table := kind.table()
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.Slug, table.Table, table.Slug)

	term := &Term{}
	if err := repository.db.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug); err != nil {
		return nil, dberr.Wrap(err, kind.Resource(), "get_term_by_slug")
	}
	return term, nil
}

func (repository *PostgresRepository) FindBySlugs(context context.Context, kind Kind, slugs []string) ([]*Term, error) {
	table := kind.table()
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s`,
		table.ID, table.Name, table.Slug, table.Table, table.Slug, table.Name)

	rows, err := repository.db.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, kind.Resource(), "get_terms_by_slug")
	}
	defer rows.Close()

	terms := make([]*Term, 0, len(slugs))
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, dberr.Wrap(err, kind.Resource(), "scan_term")
		}
		terms = append(terms, term)
	}

	return terms, dberr.Wrap(rows.Err(), kind.Resource(), "get_terms_by_slug")
}

func (repository *PostgresRepository) Create(context context.Context, kind Kind, term *Term) error {
	table := kind.table()
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		table.Table, table.Name, table.Slug, table.ID)

	if err := repository.db.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID); err != nil {
		return dberr.Wrap(err, kind.Resource(), "create_term")
	}
	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, kind Kind, slug string) error {
	table := kind.table()
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, kind.Resource(), "delete_term")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(kind.Resource())
	}
	return nil
}
