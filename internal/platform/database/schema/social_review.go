// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string

	// AuthorTitleKey is the unique constraint on (AuthorID, TitleID).
	AuthorTitleKey string
	// TitleFKey is the foreign key from TitleID to core.title.
	TitleFKey string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:    "social.review",
	ID:       "id",
	TitleID:  "titleid",
	AuthorID: "authorid",
	Text:     "text",
	Score:    "score",
	PubDate:  "pubdate",

	AuthorTitleKey: "review_author_title_key",
	TitleFKey:      "review_title_fkey",
}

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string

	// ReviewFKey is the foreign key from ReviewID to social.review.
	ReviewFKey string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:    "social.comment",
	ID:       "id",
	ReviewID: "reviewid",
	AuthorID: "authorid",
	Text:     "text",
	PubDate:  "pubdate",

	ReviewFKey: "comment_review_fkey",
}
