// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package review_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/postgres/pgtest"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

/*
TestPostgres_ReviewLifecycle runs the catalog and social stores against a real
database: rating aggregation, the one-review rule and the delete cascades.
*/
func TestPostgres_ReviewLifecycle(t *testing.T) {
	pool := pgtest.Start(t)
	ctx := context.Background()
	page := pagination.Params{Page: 1, Limit: 10}

	users := auth.NewUserRepository(pool)
	terms := taxonomy.NewService(taxonomy.NewPostgresRepository(pool))
	titles := title.NewService(title.NewPostgresRepository(pool), terms)
	reviews := review.NewService(review.NewPostgresRepository(pool), titles)
	comments := comment.NewService(comment.NewPostgresRepository(pool), reviews)

	alice := &auth.User{Username: "alice", Email: "alice@example.com"}
	bob := &auth.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	_, err := terms.Create(ctx, taxonomy.KindCategory, taxonomy.CreateInput{Name: "Movie", Slug: "movie"})
	require.NoError(t, err)
	_, err = terms.Create(ctx, taxonomy.KindGenre, taxonomy.CreateInput{Name: "Drama"})
	require.NoError(t, err)
	_, err = terms.Create(ctx, taxonomy.KindGenre, taxonomy.CreateInput{Name: "Comedy"})
	require.NoError(t, err)

	created, err := titles.Create(ctx, title.WriteInput{
		Name:     "The Long Road",
		Year:     pointer.To(1999),
		Category: "movie",
		Genres:   []string{"drama", "comedy", "drama"},
	})
	require.NoError(t, err)
	assert.Len(t, created.Genres, 2)
	assert.Nil(t, created.Rating)

	// Rating is the mean of the review scores.
	_, err = reviews.Create(ctx, alice.Identity(), created.ID, review.CreateInput{Text: "Good", Score: pointer.To(8)})
	require.NoError(t, err)
	second, err := reviews.Create(ctx, bob.Identity(), created.ID, review.CreateInput{Text: "Meh", Score: pointer.To(5)})
	require.NoError(t, err)

	read, err := titles.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, read.Rating)
	assert.InDelta(t, 6.5, *read.Rating, 0.001)

	_, err = reviews.Create(ctx, alice.Identity(), created.ID, review.CreateInput{Text: "Again", Score: pointer.To(1)})
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyReviewed))

	listed, total, err := reviews.List(ctx, created.ID, page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "bob", listed[0].Author)

	// Filters.
	found, total, err := titles.List(ctx, title.Filter{Genre: "comedy", Name: "long", Page: page})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, created.ID, found[0].ID)

	_, total, err = titles.List(ctx, title.Filter{Category: "book", Page: page})
	require.NoError(t, err)
	assert.Zero(t, total)

	// Deleting a genre drops it from the title's set.
	require.NoError(t, terms.Delete(ctx, taxonomy.KindGenre, "comedy"))
	read, err = titles.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, read.Genres, 1)
	assert.Equal(t, "drama", read.Genres[0].Slug)

	// Deleting a category leaves the title uncategorised.
	require.NoError(t, terms.Delete(ctx, taxonomy.KindCategory, "movie"))
	read, err = titles.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, read.Category)

	// Deleting a title removes its reviews and their comments.
	thread := comment.Thread{TitleID: created.ID, ReviewID: second.ID}
	_, err = comments.Create(ctx, alice.Identity(), thread, "Disagree")
	require.NoError(t, err)

	require.NoError(t, titles.Delete(ctx, created.ID))
	_, err = reviews.Get(ctx, created.ID, second.ID)
	assert.True(t, apperr.IsNotFound(err))

	var remaining int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM social.comment`).Scan(&remaining))
	assert.Zero(t, remaining)
}

// titleGuard and reviewGuard approve every parent, as if it was deleted right
// after the check.
type (
	titleGuard  struct{}
	reviewGuard struct{}
)

func (titleGuard) Ensure(context.Context, int64) error         { return nil }
func (reviewGuard) Ensure(context.Context, int64, int64) error { return nil }

/*
TestPostgres_ParentDeletedAfterCheck verifies the foreign keys on review and
comment inserts surface as NOT_FOUND.
*/
func TestPostgres_ParentDeletedAfterCheck(t *testing.T) {
	pool := pgtest.Start(t)
	ctx := context.Background()

	alice := &auth.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, auth.NewUserRepository(pool).Create(ctx, alice))

	reviews := review.NewService(review.NewPostgresRepository(pool), titleGuard{})
	_, err := reviews.Create(ctx, alice.Identity(), 4242, review.CreateInput{Text: "Gone", Score: pointer.To(5)})
	assert.True(t, apperr.IsNotFound(err), "got %v", err)

	comments := comment.NewService(comment.NewPostgresRepository(pool), reviewGuard{})
	_, err = comments.Create(ctx, alice.Identity(), comment.Thread{TitleID: 1, ReviewID: 4242}, "Gone")
	assert.True(t, apperr.IsNotFound(err), "got %v", err)
}
