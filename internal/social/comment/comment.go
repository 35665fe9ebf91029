// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment manages the discussion under a review.

A comment is reached through /titles/{titleID}/reviews/{reviewID}/comments and
both parents must exist and match. Permissions follow reviews: anyone reads,
authenticated users write, and only the author, a moderator or an admin edits.
*/
package comment

import "time"

const ResourceComment = "Comment"

type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

const FieldText = "text"
