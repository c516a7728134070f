// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements reader reviews attached to catalog titles.

Each account holds at most one review per title. The constraint is
enforced by the storage layer's unique index, not by a prior read, so
two concurrent submissions from the same account resolve to exactly one
stored review. Review scores feed the derived title rating; every write
here invalidates the cached aggregate for the affected title.
*/
package review

import "time"

// # Constants

const (
	// MinScore and MaxScore bound the accepted rating scale.
	MinScore = 1
	MaxScore = 10

	// MaxTextLength caps the review body.
	MaxTextLength = 10000
)

// Field name constants for validation errors.
const (
	FieldText  = "text"
	FieldScore = "score"
)

// # Entity

// Review is a scored opinion one account holds about one title.
type Review struct {
	ID       string `json:"id"`
	TitleID  string `json:"title_id"`
	AuthorID string `json:"-"`

	// Author is the contributor's username, resolved at read time.
	Author string `json:"author"`

	Text  string `json:"text"`
	Score int    `json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
