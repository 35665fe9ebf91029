// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

var selectComment = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s
	FROM %s c
	JOIN %s a ON a.%s = c.%s`,
	schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
	schema.UserAccount.Username,
	schema.SocialComment.Text, schema.SocialComment.PubDate,
	schema.SocialComment.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.AuthorID,
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.PubDate,
	)
	return comment, err
}

func (repository *PostgresRepository) List(context context.Context, reviewID int64, page pagination.Params) ([]*Comment, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ReviewID)
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, ResourceComment, "count_comments")
	}

	// Oldest first so a thread reads top to bottom.
	query := selectComment + fmt.Sprintf(` WHERE c.%s = $1 ORDER BY c.%s ASC, c.%s ASC LIMIT $2 OFFSET $3`,
		schema.SocialComment.ReviewID, schema.SocialComment.PubDate, schema.SocialComment.ID)

	rows, err := repository.pool.Query(context, query, reviewID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, ResourceComment, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0, page.Limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, ResourceComment, "scan_comment")
		}
		comments = append(comments, comment)
	}

	return comments, total, dberr.Wrap(rows.Err(), ResourceComment, "list_comments")
}

func (repository *PostgresRepository) FindByID(context context.Context, reviewID, id int64) (*Comment, error) {
	query := selectComment + fmt.Sprintf(` WHERE c.%s = $1 AND c.%s = $2`, schema.SocialComment.ID, schema.SocialComment.ReviewID)

	comment, err := scanComment(repository.pool.QueryRow(context, query, id, reviewID))
	if err != nil {
		return nil, dberr.Wrap(err, ResourceComment, "get_comment_by_id")
	}
	return comment, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s, %s`,
		schema.SocialComment.Table,
		schema.SocialComment.ReviewID, schema.SocialComment.AuthorID, schema.SocialComment.Text,
		schema.SocialComment.ID, schema.SocialComment.PubDate)

	err := repository.pool.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate)
	return dberr.Wrap(err, ResourceComment, "create_comment")
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.SocialComment.Table, schema.SocialComment.Text, schema.SocialComment.ID)

	tag, err := repository.pool.Exec(context, query, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, ResourceComment, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(ResourceComment)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, ResourceComment, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(ResourceComment)
	}
	return nil
}
