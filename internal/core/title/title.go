// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title implements the catalog of reviewable works.

A title carries an optional category, any number of genres, and a derived
rating: the arithmetic mean of its review scores, rounded to one decimal
place. The rating is never stored with the title; it is recomputed from the
review table on read and cached in Redis between review writes.

# Architecture

  - Entity: Title with its taxonomy links and derived rating.
  - Service: CRUD orchestration, year validation, slug resolution.
  - Repository: Postgres storage with the aggregate-mean query.
  - RatingSource: Redis read-through cache for single-title reads.
*/
package title

import (
	"time"

	"github.com/taibuivan/critica/internal/core/taxonomy"
)

// # Domain Entities

// Title represents a reviewable creative work.
type Title struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description string             `json:"description,omitempty"`
	Category    *taxonomy.Category `json:"category"`
	Genres      []taxonomy.Genre   `json:"genres"`

	// Rating is the mean review score rounded to one decimal place.
	// nil when the title has no reviews yet.
	Rating *float64 `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"

	MaxTitleNameLength = 256

	// MinYear bounds the publication year from below. Zero is not a
	// meaningful publication year in this catalog.
	MinYear = 1
)
