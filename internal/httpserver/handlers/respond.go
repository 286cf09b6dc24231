package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/recipejar/recipejar/internal/apperr"
	"github.com/recipejar/recipejar/internal/httpserver/deps"
	"github.com/recipejar/recipejar/internal/logger"
)

// envelope is the consistent response shape every endpoint uses.
type envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Count     *int        `json:"count,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func respond(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func respondData(w http.ResponseWriter, status int, message string, data interface{}) {
	respond(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondList(w http.ResponseWriter, message string, data interface{}, count int) {
	respond(w, http.StatusOK, envelope{Success: true, Message: message, Data: data, Count: &count})
}

// respondError maps err through the taxonomy. Store failures are logged with
// request context; the client only ever sees the generic message.
func respondError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	appErr := apperr.From(err)

	if appErr.Kind == apperr.KindStore {
		d.Logger.Error("store failure",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(appErr.Err))
	}

	env := envelope{Success: false, Error: appErr.Message}
	if d.Environment != "production" && appErr.Err != nil {
		env.Message = appErr.Err.Error()
	}
	respond(w, appErr.Status, env)
}
