package handlers

import (
	"net/http"

	"github.com/recipejar/recipejar/internal/httpserver/deps"
	"github.com/recipejar/recipejar/internal/httpserver/mw"
)

type adminLoginRequest struct {
	AdminID       string `json:"adminId"`
	AdminPassword string `json:"adminPassword"`
}

func AdminLogin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminLoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, d, err)
			return
		}

		token, identity, err := d.Gate.Login(req.AdminID, req.AdminPassword)
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusOK, "admin authentication successful", map[string]interface{}{
			"token": token,
			"user":  identity,
		})
	}
}

// VerifyToken reports whether the presented bearer token is still valid.
func VerifyToken(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := d.Gate.Verify(mw.BearerToken(r))
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusOK, "token is valid", map[string]interface{}{
			"user": identity,
		})
	}
}

// Me returns the identity behind the presented token.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := d.Gate.Verify(mw.BearerToken(r))
		if err != nil {
			respondError(w, r, d, err)
			return
		}
		respondData(w, http.StatusOK, "", map[string]interface{}{
			"user": identity,
		})
	}
}

// Logout exists for client symmetry only; tokens are stateless, so the
// server has nothing to invalidate.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondData(w, http.StatusOK, "logout successful", nil)
	}
}
