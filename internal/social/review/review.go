// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages the reviews written about a title.

Every operation is scoped to a title: a review is only reachable through the
title it belongs to, and a missing title answers 404 before anything else is
checked. An author may review a title at most once.

# Permissions

Anyone reads. Any authenticated user writes a review. Only the author, a
moderator or an admin changes or removes one.
*/
package review

import (
	"time"
)

// ResourceReview is the resource name used in NOT_FOUND errors.
const ResourceReview = "Review"

// Review is a scored opinion about a title.
type Review struct {
	ID       int64 `json:"id"`
	TitleID  int64 `json:"-"`
	AuthorID int64 `json:"-"`
	// Author is the author's username.
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

const (
	FieldText  = "text"
	FieldScore = "score"

	MinScore = 1
	MaxScore = 10
)
