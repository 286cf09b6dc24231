package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipejar/recipejar/internal/apperr"
	"github.com/recipejar/recipejar/internal/domain"
	"github.com/recipejar/recipejar/internal/logger"
)

// Preview is the non-committing lookup shown before a save. All fields are
// best-effort; IsExisting marks a URL that is already stored.
type Preview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Domain      string `json:"domain"`
	IsExisting  bool   `json:"isExisting"`
}

// PreviewURL resolves preview metadata for a candidate URL without writing
// anything. Existing records short-circuit the fetch; a failed fetch falls
// back to a domain-derived generic title, never an error.
func (s *RecipeService) PreviewURL(ctx context.Context, rawURL string) (*Preview, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !domain.IsValidURL(rawURL) {
		return nil, apperr.Validation("invalid URL format, please provide a valid HTTP or HTTPS URL")
	}

	if existing, err := s.repo.GetByURL(ctx, rawURL); err == nil {
		description := fmt.Sprintf("saved recipe (rating: %s)", existing.Rating)
		if existing.Memo != "" {
			description = "memo: " + existing.Memo
		}
		return &Preview{
			Title:       existing.Title,
			Description: description,
			Image:       existing.ImageURL,
			Domain:      existing.Domain,
			IsExisting:  true,
		}, nil
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		// Store trouble only degrades the preview, it never fails it.
		s.log.Warn("existing-recipe lookup failed during preview", logger.Error(err))
	}

	if meta, err := s.fetcher.Fetch(ctx, rawURL); err == nil {
		return &Preview{
			Title:       meta.Title,
			Description: meta.Description,
			Image:       meta.Image,
			Domain:      meta.Domain,
			IsExisting:  false,
		}, nil
	}

	host := domain.ExtractDomain(rawURL)
	name := strings.TrimPrefix(host, "www.")
	return &Preview{
		Title:       name + " recipe",
		Description: fmt.Sprintf("recipe from %s, the exact title appears after saving", host),
		Domain:      host,
		IsExisting:  false,
	}, nil
}
