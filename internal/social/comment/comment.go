// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment implements discussion threads under reviews. Comments
// carry no score and no uniqueness rule; they share the review mutation
// gate and cascade away when their review or its title is removed.
package comment

import "time"

const (
	// MaxTextLength caps the comment body.
	MaxTextLength = 2000

	// FieldText names the body field in validation errors.
	FieldText = "text"
)

// Comment is a remark one account leaves under a review.
type Comment struct {
	ID       string `json:"id"`
	ReviewID string `json:"review_id"`
	AuthorID string `json:"-"`

	// Author is the contributor's username, resolved at read time.
	Author string `json:"author"`

	Text string `json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
