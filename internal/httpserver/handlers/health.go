package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/recipejar/recipejar/internal/httpserver/deps"
)

type healthResponse struct {
	Status        string  `json:"status"`
	Database      string  `json:"database"`
	Environment   string  `json:"environment"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Timestamp     string  `json:"timestamp"`
}

func Health(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		database := "connected"
		overall := "ok"
		if d.DB == nil || d.DB.Ping(ctx) != nil {
			status = http.StatusServiceUnavailable
			database = "disconnected"
			overall = "service unavailable"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:        overall,
			Database:      database,
			Environment:   d.Environment,
			Version:       d.Version,
			UptimeSeconds: time.Since(start).Seconds(),
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
