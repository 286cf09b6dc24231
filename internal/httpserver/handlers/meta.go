package handlers

import (
	"net/http"

	"github.com/recipejar/recipejar/internal/httpserver/deps"
)

// ExtractMeta runs a live metadata fetch for the given url query parameter.
// Public: previews happen before the admin decides to save.
func ExtractMeta(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := r.URL.Query().Get("url")

		meta, err := d.Recipes.ExtractMetadata(r.Context(), rawURL)
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusOK, "metadata extracted successfully", map[string]interface{}{
			"url":      rawURL,
			"metadata": meta,
		})
	}
}

// PreviewRecipe returns non-committing preview data: the stored record's
// fields when the URL already exists, otherwise fetched or fallback metadata.
func PreviewRecipe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := r.URL.Query().Get("url")

		preview, err := d.Recipes.PreviewURL(r.Context(), rawURL)
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusOK, "preview resolved successfully", preview)
	}
}
