package main

import (
	"log"

	"github.com/recipejar/recipejar/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ recipejar failed to start: %v", err)
	}
}
