// Package service composes the URL validator, metadata fetcher and recipe
// repository into the save/update/preview workflows.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/recipejar/recipejar/internal/apperr"
	"github.com/recipejar/recipejar/internal/database/models"
	"github.com/recipejar/recipejar/internal/database/repositories"
	"github.com/recipejar/recipejar/internal/domain"
	"github.com/recipejar/recipejar/internal/logger"
	"github.com/recipejar/recipejar/internal/metadata"
)

// Fetcher is the outbound metadata dependency; failures degrade, never abort.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*metadata.Metadata, error)
}

type Options struct {
	// StrictRating rejects out-of-range ratings on update instead of
	// silently falling back to the lowest label.
	StrictRating bool
}

type RecipeService struct {
	repo         repositories.RecipeRepository
	fetcher      Fetcher
	log          logger.Logger
	strictRating bool
}

func New(repo repositories.RecipeRepository, fetcher Fetcher, log logger.Logger, opts Options) *RecipeService {
	return &RecipeService{
		repo:         repo,
		fetcher:      fetcher,
		log:          log,
		strictRating: opts.StrictRating,
	}
}

type SaveInput struct {
	URL      string
	Title    string
	Memo     string
	Rating   *int // 1-5; nil or out of range saves as the lowest label
	ImageURL string
}

// Save runs the dedupe-or-create-with-metadata workflow: validate the URL,
// enrich best-effort, merge caller-supplied fields over fetched ones, and
// persist. A duplicate URL surfaces as a conflict distinguishable from
// validation failures.
func (s *RecipeService) Save(ctx context.Context, in SaveInput) (*models.Recipe, error) {
	in.URL = strings.TrimSpace(in.URL)
	if err := validateFields(in.URL, in.Title, in.Memo, true); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		URL:      in.URL,
		Domain:   domain.ExtractDomain(in.URL),
		Title:    strings.TrimSpace(in.Title),
		Memo:     strings.TrimSpace(in.Memo),
		ImageURL: strings.TrimSpace(in.ImageURL),
	}

	if in.Rating != nil {
		recipe.Rating = string(domain.RatingFromValue(*in.Rating))
	} else {
		recipe.Rating = string(domain.RatingUndecided)
	}

	// Best-effort enrichment; caller-supplied fields always win.
	if meta, err := s.fetcher.Fetch(ctx, in.URL); err != nil {
		s.log.Warn("metadata fetch failed, saving with degraded metadata",
			logger.String("url", in.URL),
			logger.Error(err))
	} else {
		if recipe.Title == "" {
			recipe.Title = meta.Title
		}
		if recipe.ImageURL == "" {
			recipe.ImageURL = meta.Image
		}
	}

	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	s.log.Info("recipe saved",
		logger.String("id", recipe.ID),
		logger.String("domain", recipe.Domain))
	return recipe, nil
}

type UpdateInput struct {
	URL      *string
	Title    *string
	Memo     *string
	Rating   *int // 1-5 via the closed mapping table
	ImageURL *string
}

// Update applies an allow-listed partial update. A url change re-derives the
// stored domain; uniqueness against all other records is re-checked by the
// store's constraint.
func (s *RecipeService) Update(ctx context.Context, id string, in UpdateInput) (*models.Recipe, error) {
	if id == "" {
		return nil, apperr.Validation("recipe ID is required")
	}
	if in.URL == nil && in.Title == nil && in.Memo == nil && in.Rating == nil && in.ImageURL == nil {
		return nil, apperr.Validation("at least one field must be provided for update")
	}

	upd := &models.RecipeUpdate{
		Memo:     in.Memo,
		ImageURL: in.ImageURL,
	}

	if in.URL != nil {
		u := strings.TrimSpace(*in.URL)
		if err := validateFields(u, "", "", true); err != nil {
			return nil, err
		}
		d := domain.ExtractDomain(u)
		upd.URL = &u
		upd.Domain = &d
	}

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if len([]rune(t)) > domain.MaxTitleLength {
			return nil, apperr.Validation(fmt.Sprintf("title is too long, maximum length is %d characters", domain.MaxTitleLength))
		}
		upd.Title = &t
	}

	if in.Memo != nil && len([]rune(*in.Memo)) > domain.MaxMemoLength {
		return nil, apperr.Validation(fmt.Sprintf("memo is too long, maximum length is %d characters", domain.MaxMemoLength))
	}

	if in.Rating != nil {
		if !domain.IsValidRatingValue(*in.Rating) && s.strictRating {
			return nil, apperr.Validation("rating must be an integer between 1 and 5")
		}
		label := string(domain.RatingFromValue(*in.Rating))
		upd.Rating = &label
	}

	return s.repo.Update(ctx, id, upd)
}

func (s *RecipeService) List(ctx context.Context) ([]*models.Recipe, error) {
	return s.repo.List(ctx)
}

func (s *RecipeService) Delete(ctx context.Context, id string) (*models.Recipe, error) {
	if id == "" {
		return nil, apperr.Validation("recipe ID is required")
	}
	return s.repo.Delete(ctx, id)
}

// ExtractMetadata validates the URL and runs a live fetch, mapping fetch
// failure classes onto the error taxonomy for direct HTTP exposure.
func (s *RecipeService) ExtractMetadata(ctx context.Context, rawURL string) (*metadata.Metadata, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, apperr.Validation("URL parameter is required")
	}
	if !domain.IsValidURL(rawURL) {
		return nil, apperr.Validation("invalid URL format, please provide a valid HTTP or HTTPS URL")
	}

	meta, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, classifyFetchError(err)
	}
	return meta, nil
}

func classifyFetchError(err error) error {
	switch {
	case errors.Is(err, metadata.ErrUnresolvable):
		return apperr.Upstream(http.StatusNotFound, err.Error())
	case errors.Is(err, metadata.ErrTimeout):
		return apperr.Upstream(http.StatusRequestTimeout, err.Error())
	case errors.Is(err, metadata.ErrNoResponse):
		return apperr.Upstream(http.StatusServiceUnavailable, err.Error())
	}
	var statusErr *metadata.RemoteStatusError
	if errors.As(err, &statusErr) {
		return apperr.Upstream(statusErr.StatusCode, statusErr.Error())
	}
	return apperr.Upstream(http.StatusServiceUnavailable, "metadata extraction failed")
}

func validateFields(url, title, memo string, urlRequired bool) error {
	if url == "" {
		if urlRequired {
			return apperr.Validation("recipe URL is required")
		}
	} else {
		if !domain.IsValidURL(url) {
			return apperr.Validation("invalid URL format, please provide a valid HTTP or HTTPS URL")
		}
		if len(url) > domain.MaxURLLength {
			return apperr.Validation(fmt.Sprintf("URL is too long, maximum length is %d characters", domain.MaxURLLength))
		}
	}
	if len([]rune(title)) > domain.MaxTitleLength {
		return apperr.Validation(fmt.Sprintf("title is too long, maximum length is %d characters", domain.MaxTitleLength))
	}
	if len([]rune(memo)) > domain.MaxMemoLength {
		return apperr.Validation(fmt.Sprintf("memo is too long, maximum length is %d characters", domain.MaxMemoLength))
	}
	return nil
}
