package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Recipe is the sole persisted entity: one saved link plus user annotations.
// URL is unique across all records; the constraint lives in the database so
// concurrent creates race safely.
type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID       string `bun:"id,pk"`
	URL      string `bun:"url,notnull,unique"`
	Domain   string `bun:"domain,notnull"`
	Title    string `bun:"title"`
	Memo     string `bun:"memo"`
	Rating   string `bun:"rating,notnull"` // closed-set label, not an arbitrary string
	ImageURL string `bun:"image_url"`

	DateAdded time.Time `bun:"date_added,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// RecipeUpdate is the allow-listed partial-update set. A nil field is left
// untouched; anything outside this struct never reaches a write.
type RecipeUpdate struct {
	URL      *string
	Domain   *string
	Title    *string
	Memo     *string
	Rating   *string
	ImageURL *string
}

// Empty reports whether the update carries no fields at all.
func (u *RecipeUpdate) Empty() bool {
	return u.URL == nil && u.Domain == nil && u.Title == nil &&
		u.Memo == nil && u.Rating == nil && u.ImageURL == nil
}
