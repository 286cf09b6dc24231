package deps

import (
	"context"
	"time"

	"github.com/recipejar/recipejar/internal/auth"
	"github.com/recipejar/recipejar/internal/logger"
	"github.com/recipejar/recipejar/internal/service"
)

// Pinger is the slice of the database the health endpoint needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger      logger.Logger
	StartTime   time.Time
	Version     string
	Environment string // "development" | "production"

	Recipes *service.RecipeService
	Gate    *auth.Gate
	DB      Pinger

	CORSOrigin   string
	AllowedHosts []string // Host headers allowed to access the server (empty = all)
	TrustProxy   bool

	RateLimitBurst  int
	RateLimitPerMin int
}
