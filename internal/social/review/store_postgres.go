// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// selectReview joins the author so the username travels with the review.
var selectReview = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
	FROM %s r
	JOIN %s a ON a.%s = r.%s`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
	schema.UserAccount.Username,
	schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate,
	schema.SocialReview.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)
	return review, err
}

func (repository *PostgresRepository) List(context context.Context, titleID int64, page pagination.Params) ([]*Review, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.SocialReview.Table, schema.SocialReview.TitleID)
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, ResourceReview, "count_reviews")
	}

	query := selectReview + fmt.Sprintf(` WHERE r.%s = $1 ORDER BY r.%s DESC, r.%s DESC LIMIT $2 OFFSET $3`,
		schema.SocialReview.TitleID, schema.SocialReview.PubDate, schema.SocialReview.ID)

	rows, err := repository.pool.Query(context, query, titleID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, ResourceReview, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0, page.Limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, ResourceReview, "scan_review")
		}
		reviews = append(reviews, review)
	}

	return reviews, total, dberr.Wrap(rows.Err(), ResourceReview, "list_reviews")
}

func (repository *PostgresRepository) FindByID(context context.Context, titleID, id int64) (*Review, error) {
	query := selectReview + fmt.Sprintf(` WHERE r.%s = $1 AND r.%s = $2`, schema.SocialReview.ID, schema.SocialReview.TitleID)

	review, err := scanReview(repository.pool.QueryRow(context, query, id, titleID))
	if err != nil {
		return nil, dberr.Wrap(err, ResourceReview, "get_review_by_id")
	}
	return review, nil
}

func (repository *PostgresRepository) ExistsByAuthor(context context.Context, titleID, authorID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.SocialReview.Table, schema.SocialReview.TitleID, schema.SocialReview.AuthorID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, ResourceReview, "review_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s, %s`,
		schema.SocialReview.Table,
		schema.SocialReview.TitleID, schema.SocialReview.AuthorID, schema.SocialReview.Text, schema.SocialReview.Score,
		schema.SocialReview.ID, schema.SocialReview.PubDate)

	err := repository.pool.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)
	return dberr.Wrap(err, ResourceReview, "create_review")
}

func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.SocialReview.Table, schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.ID)

	tag, err := repository.pool.Exec(context, query, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, ResourceReview, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(ResourceReview)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialReview.Table, schema.SocialReview.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, ResourceReview, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(ResourceReview)
	}
	return nil
}
