package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/recipejar/recipejar/internal/apperr"
	"github.com/recipejar/recipejar/internal/database/models"
	"github.com/recipejar/recipejar/internal/domain"
	"github.com/recipejar/recipejar/internal/httpserver/deps"
	"github.com/recipejar/recipejar/internal/service"
)

// recipeDTO is how a record crosses the HTTP boundary: the rating label is
// rendered as its integer 1-5 and an absent title falls back to the domain,
// then to a literal placeholder.
type recipeDTO struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	Title     string    `json:"title"`
	Memo      string    `json:"memo,omitempty"`
	Rating    int       `json:"rating"`
	ImageURL  string    `json:"image_url,omitempty"`
	DateAdded time.Time `json:"date_added"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDTO(rec *models.Recipe) recipeDTO {
	title := rec.Title
	if title == "" {
		title = rec.Domain
	}
	if title == "" {
		title = "Untitled recipe"
	}
	return recipeDTO{
		ID:        rec.ID,
		URL:       rec.URL,
		Domain:    rec.Domain,
		Title:     title,
		Memo:      rec.Memo,
		Rating:    domain.Rating(rec.Rating).Value(),
		ImageURL:  rec.ImageURL,
		DateAdded: rec.DateAdded,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func toDTOs(recs []*models.Recipe) []recipeDTO {
	out := make([]recipeDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDTO(rec))
	}
	return out
}

type createRecipeRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Memo     string `json:"memo"`
	Rating   *int   `json:"rating"`
	ImageURL string `json:"image_url"`
}

type updateRecipeRequest struct {
	URL      *string `json:"url"`
	Title    *string `json:"title"`
	Memo     *string `json:"memo"`
	Rating   *int    `json:"rating"`
	ImageURL *string `json:"image_url"`
}

// decodeJSON rejects unknown fields so arbitrary keys never reach a write.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid JSON in request body")
	}
	return nil
}

func CreateRecipe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRecipeRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, d, err)
			return
		}

		rec, err := d.Recipes.Save(r.Context(), service.SaveInput{
			URL:      req.URL,
			Title:    req.Title,
			Memo:     req.Memo,
			Rating:   req.Rating,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusCreated, "recipe created successfully", toDTO(rec))
	}
}

func ListRecipes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := d.Recipes.List(r.Context())
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondList(w, "recipes retrieved successfully", toDTOs(recs), len(recs))
	}
}

func UpdateRecipe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateRecipeRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, d, err)
			return
		}

		rec, err := d.Recipes.Update(r.Context(), id, service.UpdateInput{
			URL:      req.URL,
			Title:    req.Title,
			Memo:     req.Memo,
			Rating:   req.Rating,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusOK, "recipe updated successfully", toDTO(rec))
	}
}

func DeleteRecipe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := d.Recipes.Delete(r.Context(), id)
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusOK, "recipe deleted successfully", map[string]interface{}{
			"deletedRecipe": toDTO(rec),
		})
	}
}
