package mw

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/recipejar/recipejar/internal/apperr"
	"github.com/recipejar/recipejar/internal/auth"
	"github.com/recipejar/recipejar/internal/logger"
)

type identityKey struct{}

// IdentityFrom returns the verified admin identity stored by RequireAdmin.
func IdentityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey{}).(*auth.Identity)
	return id
}

// BearerToken extracts the token from an "Authorization: Bearer x" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin gates mutating endpoints behind the admin session check.
// Reads never pass through here; they stay public.
func RequireAdmin(gate *auth.Gate, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.Verify(BearerToken(r))
			if err != nil {
				appErr := apperr.From(err)
				log.Debug("admin gate rejected request",
					logger.String("path", r.URL.Path),
					logger.Int("status", appErr.Status))
				writeAuthError(w, appErr)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, appErr *apperr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   false,
		"error":     appErr.Message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
