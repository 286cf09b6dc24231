package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/recipejar/recipejar/internal/httpserver/deps"
	"github.com/recipejar/recipejar/internal/httpserver/handlers"
	"github.com/recipejar/recipejar/internal/httpserver/mw"
)

func init() { Register(registerRecipes) }

func registerRecipes(r chi.Router, d deps.Deps) {
	r.Route("/api/recipes", func(r chi.Router) {
		// Read path stays public.
		r.Get("/", handlers.ListRecipes(d))
		r.Get("/extract-meta", handlers.ExtractMeta(d))
		r.Get("/preview", handlers.PreviewRecipe(d))

		// Every mutation goes through the admin gate.
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin(d.Gate, d.Logger))
			r.Post("/", handlers.CreateRecipe(d))
			r.Put("/{id}", handlers.UpdateRecipe(d))
			r.Delete("/{id}", handlers.DeleteRecipe(d))
		})
	})
}
