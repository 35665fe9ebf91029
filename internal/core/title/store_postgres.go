// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// selectTitle reads a title with its category, genres and computed rating.
// Genres are aggregated to JSON so a page is a single round-trip.
var selectTitle = fmt.Sprintf(`
	SELECT
		t.%s, t.%s, t.%s, t.%s,
		c.%s, c.%s,
		(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating,
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s tg ON g.%s = tg.%s
			WHERE tg.%s = t.%s
		), '[]') AS genres,
		COUNT(*) OVER() AS total_count
	FROM %s t
	LEFT JOIN %s c ON c.%s = t.%s
	WHERE TRUE`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
	schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID, schema.CoreTitle.ID,
	schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Name,
	schema.CoreGenre.Table,
	schema.CoreTitleGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
	schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID,
	schema.CoreTitle.Table,
	schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreTitle.CategoryID,
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanTitle(row pgx.Row, total *int) (*Title, error) {
	var (
		title        Title
		categoryName *string
		categorySlug *string
		genresJSON   []byte
	)

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&categoryName,
		&categorySlug,
		&title.Rating,
		&genresJSON,
		total,
	)
	if err != nil {
		return nil, err
	}

	if categorySlug != nil {
		title.Category = &taxonomy.Term{Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}
	return &title, nil
}

// whereClause appends the filter conditions and returns the next placeholder index.
func whereClause(builder *strings.Builder, filter Filter) ([]any, int) {
	var args []any
	argID := 1

	// Category Filtering
	if filter.Category != "" {
		builder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Genre Filtering
	if filter.Genre != "" {
		builder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = $%d)`,
			schema.CoreTitleGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
			schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, argID))
		args = append(args, filter.Genre)
		argID++
	}

	// Name Filtering
	if filter.Name != "" {
		builder.WriteString(fmt.Sprintf(" AND t.%s ILIKE $%d", schema.CoreTitle.Name, argID))
		args = append(args, postgres.ContainsPattern(filter.Name))
		argID++
	}

	// Year Filtering
	if filter.Year != nil {
		builder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	return args, argID
}

/*
List returns one page of titles.

Description: The total comes from a window function over the filtered set.
A page past the end has no rows to carry it, so the total is then counted
separately.

Parameters:
  - context: context.Context
  - filter: Filter

Returns:
  - []*Title: The page, ordered by id
  - int: Total matching titles
  - error: Storage failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectTitle)
	args, argID := whereClause(&queryBuilder, filter)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s LIMIT $%d OFFSET $%d", schema.CoreTitle.ID, argID, argID+1))
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, ResourceTitle, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0, filter.Page.Limit)
	var total int
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, ResourceTitle, "scan_title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, ResourceTitle, "list_titles")
	}

	if len(titles) == 0 && filter.Page.Offset() > 0 {
		total, err = repository.count(context, filter)
		if err != nil {
			return nil, 0, err
		}
	}

	return titles, total, nil
}

func (repository *PostgresRepository) count(context context.Context, filter Filter) (int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT COUNT(*) FROM %s t LEFT JOIN %s c ON c.%s = t.%s WHERE TRUE`,
		schema.CoreTitle.Table, schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreTitle.CategoryID))
	args, _ := whereClause(&queryBuilder, filter)

	var total int
	if err := repository.pool.QueryRow(context, queryBuilder.String(), args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, ResourceTitle, "count_titles")
	}
	return total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := selectTitle + fmt.Sprintf(" AND t.%s = $1", schema.CoreTitle.ID)

	var total int
	title, err := scanTitle(repository.pool.QueryRow(context, query, id), &total)
	if err != nil {
		return nil, dberr.Wrap(err, ResourceTitle, "get_title_by_id")
	}
	return title, nil
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, ResourceTitle, "title_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, query,
			record.Name, record.Year, record.Description, record.CategoryID,
		).Scan(&record.ID)
		if err != nil {
			return err
		}
		return replaceGenres(context, transaction, record.ID, record.GenreIDs)
	})

	return dberr.Wrap(err, ResourceTitle, "create_title")
}

func (repository *PostgresRepository) Update(context context.Context, record *Record) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5 WHERE %s = $1`,
		schema.CoreTitle.Table,
		schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
		schema.CoreTitle.ID)

	err := postgres.InTx(context, repository.pool, func(transaction pgx.Tx) error {
		tag, err := transaction.Exec(context, query,
			record.ID, record.Name, record.Year, record.Description, record.CategoryID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound(ResourceTitle)
		}
		return replaceGenres(context, transaction, record.ID, record.GenreIDs)
	})

	if apperr.IsAppError(err) {
		return err
	}
	return dberr.Wrap(err, ResourceTitle, "update_title")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, ResourceTitle, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(ResourceTitle)
	}
	return nil
}

// replaceGenres clears the title's genre links and batch-inserts genreIDs.
func replaceGenres(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID)
	if _, err := transaction.Exec(context, deleteQuery, titleID); err != nil {
		return fmt.Errorf("postgres: failed to clear genres: %w", err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID, schema.CoreTitleGenre.GenreID)

	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insertQuery, titleID, genreID)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to link genres: %w", err)
	}
	return nil
}
