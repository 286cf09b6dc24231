package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/recipejar/recipejar/internal/httpserver/deps"
	"github.com/recipejar/recipejar/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/admin", handlers.AdminLogin(d))
		r.Post("/verify", handlers.VerifyToken(d))
		r.Post("/logout", handlers.Logout(d))
		r.Get("/me", handlers.Me(d))
	})
}
