package taxonomy

import "time"

// Category is a single curated grouping a title belongs to (e.g. "Movies").
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// Genre is a descriptive label a title can carry many of (e.g. "Drama").
type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

const (
	FieldName = "name"
	FieldSlug = "slug"

	MaxNameLength = 256
	MaxSlugLength = 50
)
