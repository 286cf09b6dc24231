package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/recipejar/recipejar/internal/apperr"
	"github.com/recipejar/recipejar/internal/database/models"
)

// pgUniqueViolation is the Postgres SQLSTATE for a unique-constraint breach.
const pgUniqueViolation = "23505"

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	List(ctx context.Context) ([]*models.Recipe, error)
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	GetByURL(ctx context.Context, url string) (*models.Recipe, error)
	Update(ctx context.Context, id string, upd *models.RecipeUpdate) (*models.Recipe, error)
	Delete(ctx context.Context, id string) (*models.Recipe, error)
}

type recipeRepository struct {
	db *bun.DB
}

func NewRecipeRepository(db *bun.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create persists a new recipe. The database unique constraint on url is the
// only dedupe authority: under concurrent creates of the same URL exactly one
// insert wins and the loser surfaces as a conflict, never a second row.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	now := time.Now().UTC()
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	recipe.DateAdded = now
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(recipe).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("recipe with this URL already exists")
		}
		return apperr.Store(err)
	}
	return nil
}

func (r *recipeRepository) List(ctx context.Context) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.db.NewSelect().
		Model(&recipes).
		Order("date_added DESC").
		Scan(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return recipes, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	recipe := new(models.Recipe)
	err := r.db.NewSelect().
		Model(recipe).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, apperr.Store(err)
	}
	return recipe, nil
}

func (r *recipeRepository) GetByURL(ctx context.Context, url string) (*models.Recipe, error) {
	recipe := new(models.Recipe)
	err := r.db.NewSelect().
		Model(recipe).
		Where("url = ?", url).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, apperr.Store(err)
	}
	return recipe, nil
}

// Update applies an allow-listed partial update. A url change rides the same
// unique constraint as Create, so a duplicate against any *other* row is a
// conflict. updated_at is refreshed on every call.
func (r *recipeRepository) Update(ctx context.Context, id string, upd *models.RecipeUpdate) (*models.Recipe, error) {
	q := r.db.NewUpdate().
		Model((*models.Recipe)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id)

	if upd.URL != nil {
		q = q.Set("url = ?", *upd.URL)
	}
	if upd.Domain != nil {
		q = q.Set("domain = ?", *upd.Domain)
	}
	if upd.Title != nil {
		q = q.Set("title = ?", *upd.Title)
	}
	if upd.Memo != nil {
		q = q.Set("memo = ?", *upd.Memo)
	}
	if upd.Rating != nil {
		q = q.Set("rating = ?", *upd.Rating)
	}
	if upd.ImageURL != nil {
		q = q.Set("image_url = ?", *upd.ImageURL)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("recipe with this URL already exists")
		}
		return nil, apperr.Store(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperr.Store(err)
	}
	if affected == 0 {
		return nil, apperr.NotFound("recipe not found")
	}

	return r.GetByID(ctx, id)
}

// Delete removes the record and returns the deleted row. Deleting an unknown
// or already-deleted id is not-found every time; ids are never reused.
func (r *recipeRepository) Delete(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := r.db.NewDelete().
		Model((*models.Recipe)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperr.Store(err)
	}
	if affected == 0 {
		// Lost a race with a concurrent delete.
		return nil, apperr.NotFound("recipe not found")
	}
	return recipe, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	return false
}
