package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/recipejar/recipejar/internal/apperr"
	"github.com/recipejar/recipejar/internal/database/models"
	"github.com/recipejar/recipejar/internal/domain"
	"github.com/recipejar/recipejar/internal/logger"
	"github.com/recipejar/recipejar/internal/metadata"
)

// fakeRepo mirrors the repository contract in memory, including the
// URL-uniqueness invariant.
type fakeRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.Recipe
	ordered []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*models.Recipe)}
}

func (f *fakeRepo) Create(ctx context.Context, r *models.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.URL == r.URL {
			return apperr.Conflict("recipe with this URL already exists")
		}
	}
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.DateAdded = now
	r.CreatedAt = now
	r.UpdatedAt = now
	cp := *r
	f.byID[r.ID] = &cp
	f.ordered = append([]string{r.ID}, f.ordered...)
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Recipe, 0, len(f.ordered))
	for _, id := range f.ordered {
		cp := *f.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("recipe not found")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetByURL(ctx context.Context, url string) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.URL == url {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("recipe not found")
}

func (f *fakeRepo) Update(ctx context.Context, id string, upd *models.RecipeUpdate) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("recipe not found")
	}
	if upd.URL != nil {
		for otherID, other := range f.byID {
			if otherID != id && other.URL == *upd.URL {
				return nil, apperr.Conflict("recipe with this URL already exists")
			}
		}
		r.URL = *upd.URL
	}
	if upd.Domain != nil {
		r.Domain = *upd.Domain
	}
	if upd.Title != nil {
		r.Title = *upd.Title
	}
	if upd.Memo != nil {
		r.Memo = *upd.Memo
	}
	if upd.Rating != nil {
		r.Rating = *upd.Rating
	}
	if upd.ImageURL != nil {
		r.ImageURL = *upd.ImageURL
	}
	r.UpdatedAt = r.UpdatedAt.Add(time.Millisecond) // strictly greater
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("recipe not found")
	}
	delete(f.byID, id)
	for i, v := range f.ordered {
		if v == id {
			f.ordered = append(f.ordered[:i], f.ordered[i+1:]...)
			break
		}
	}
	return r, nil
}

type fakeFetcher struct {
	meta *metadata.Metadata
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*metadata.Metadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.meta != nil {
		return f.meta, nil
	}
	return &metadata.Metadata{Domain: domain.ExtractDomain(rawURL)}, nil
}

func newTestService(repo *fakeRepo, fetcher Fetcher, opts Options) *RecipeService {
	return New(repo, fetcher, logger.Nop(), opts)
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestSaveFetchFailureDoesNotPreventSave(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{err: metadata.ErrTimeout}, Options{})

	rec, err := svc.Save(context.Background(), SaveInput{
		URL:   "https://example.com/r1",
		Title: "My Title",
	})
	if err != nil {
		t.Fatalf("Save() error = %v, want success despite fetch timeout", err)
	}
	if rec.Title != "My Title" {
		t.Errorf("Title = %q, want %q", rec.Title, "My Title")
	}
	if rec.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", rec.Domain)
	}
}

func TestSaveDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{err: metadata.ErrNoResponse}, Options{})

	rec, err := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rec.Rating != string(domain.RatingUndecided) {
		t.Errorf("Rating = %q, want %q", rec.Rating, domain.RatingUndecided)
	}
	if rec.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", rec.Domain)
	}
	if rec.ID == "" {
		t.Error("ID not generated")
	}
}

func TestSaveCallerTitleWinsOverFetched(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{meta: &metadata.Metadata{
		Title:  "Fetched Title",
		Image:  "https://example.com/fetched.jpg",
		Domain: "example.com",
	}}, Options{})

	rec, err := svc.Save(context.Background(), SaveInput{
		URL:   "https://example.com/r1",
		Title: "Caller Title",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rec.Title != "Caller Title" {
		t.Errorf("Title = %q, want caller-supplied to win", rec.Title)
	}
	if rec.ImageURL != "https://example.com/fetched.jpg" {
		t.Errorf("ImageURL = %q, want fetched image", rec.ImageURL)
	}
}

func TestSaveFetchedTitleUsedWhenCallerSilent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{meta: &metadata.Metadata{
		Title:  "Fetched Title",
		Domain: "example.com",
	}}, Options{})

	rec, err := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rec.Title != "Fetched Title" {
		t.Errorf("Title = %q, want fetched title", rec.Title)
	}
}

func TestSaveDuplicateURL(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{}, Options{})

	if _, err := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1"}); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	_, err := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1"})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("second Save() error = %v, want conflict", err)
	}

	all, _ := repo.List(context.Background())
	if len(all) != 1 {
		t.Errorf("stored records = %d, want exactly 1", len(all))
	}
}

func TestSaveValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, Options{})

	tests := []struct {
		name string
		in   SaveInput
	}{
		{name: "missing url", in: SaveInput{}},
		{name: "invalid url", in: SaveInput{URL: "ftp://example.com"}},
		{name: "url too long", in: SaveInput{URL: "https://example.com/" + strings.Repeat("a", 2100)}},
		{name: "title too long", in: SaveInput{URL: "https://example.com", Title: strings.Repeat("t", 300)}},
		{name: "memo too long", in: SaveInput{URL: "https://example.com", Memo: strings.Repeat("m", 1100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(context.Background(), tt.in)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("Save() error = %v, want validation", err)
			}
		})
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{}, Options{})

	created, err := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1", Title: "T"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Memo: strPtr("x")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Memo != "x" {
		t.Errorf("Memo = %q, want %q", updated.Memo, "x")
	}
	if updated.Title != created.Title || updated.URL != created.URL || updated.ID != created.ID {
		t.Error("Update() changed fields outside the requested set")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want strictly after %v", updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestUpdateRatingFallback(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{}, Options{})

	created, _ := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1", Rating: intPtr(4)})

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Rating: intPtr(99)})
	if err != nil {
		t.Fatalf("Update() error = %v, want lenient fallback", err)
	}
	if updated.Rating != string(domain.RatingUndecided) {
		t.Errorf("Rating = %q, want fallback to %q", updated.Rating, domain.RatingUndecided)
	}
}

func TestUpdateRatingStrictMode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{}, Options{StrictRating: true})

	created, _ := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1"})

	_, err := svc.Update(context.Background(), created.ID, UpdateInput{Rating: intPtr(0)})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Update() error = %v, want validation in strict mode", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Rating: intPtr(5)})
	if err != nil {
		t.Fatalf("Update() with valid rating error = %v", err)
	}
	if updated.Rating != string(domain.RatingWouldRepeat) {
		t.Errorf("Rating = %q, want %q", updated.Rating, domain.RatingWouldRepeat)
	}
}

func TestUpdateURLRederivesDomain(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{}, Options{})

	created, _ := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1"})

	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{URL: strPtr("https://other.example.org/r2")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Domain != "other.example.org" {
		t.Errorf("Domain = %q, want re-derived other.example.org", updated.Domain)
	}
}

func TestUpdateNoFields(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, Options{})
	_, err := svc.Update(context.Background(), "some-id", UpdateInput{})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Update() error = %v, want validation", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, Options{})
	_, err := svc.Update(context.Background(), "missing", UpdateInput{Memo: strPtr("x")})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Update() error = %v, want not-found", err)
	}
}

func TestDeleteIdempotentlyNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{}, Options{})

	created, _ := svc.Save(context.Background(), SaveInput{URL: "https://example.com/r1"})

	deleted, err := svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("Delete() returned id %q, want %q", deleted.ID, created.ID)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Delete(context.Background(), created.ID); !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("repeat Delete() #%d error = %v, want not-found", i+1, err)
		}
	}
}

func TestExtractMetadataErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		fetchErr   error
		wantStatus int
	}{
		{name: "unresolvable", fetchErr: metadata.ErrUnresolvable, wantStatus: http.StatusNotFound},
		{name: "timeout", fetchErr: metadata.ErrTimeout, wantStatus: http.StatusRequestTimeout},
		{name: "no response", fetchErr: metadata.ErrNoResponse, wantStatus: http.StatusServiceUnavailable},
		{name: "remote status", fetchErr: &metadata.RemoteStatusError{StatusCode: 502}, wantStatus: 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeRepo(), &fakeFetcher{err: tt.fetchErr}, Options{})
			_, err := svc.ExtractMetadata(context.Background(), "https://example.com")
			if err == nil {
				t.Fatal("ExtractMetadata() error = nil, want upstream failure")
			}
			appErr := apperr.From(err)
			if appErr.Kind != apperr.KindUpstream {
				t.Errorf("Kind = %v, want upstream", appErr.Kind)
			}
			if appErr.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", appErr.Status, tt.wantStatus)
			}
		})
	}
}

func TestExtractMetadataInvalidURL(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, Options{})
	_, err := svc.ExtractMetadata(context.Background(), "not-a-url")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("ExtractMetadata() error = %v, want validation", err)
	}
}

func TestPreviewExistingRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{err: errors.New("should not be called")}, Options{})

	created, _ := svc.Save(context.Background(), SaveInput{
		URL:   "https://example.com/r1",
		Title: "Stored",
		Memo:  "needs less salt",
	})

	p, err := svc.PreviewURL(context.Background(), created.URL)
	if err != nil {
		t.Fatalf("PreviewURL() error = %v", err)
	}
	if !p.IsExisting {
		t.Error("IsExisting = false, want true for stored URL")
	}
	if p.Title != "Stored" {
		t.Errorf("Title = %q, want stored title", p.Title)
	}
	if !strings.Contains(p.Description, "needs less salt") {
		t.Errorf("Description = %q, want memo-derived", p.Description)
	}
}

func TestPreviewFetchFallback(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{err: metadata.ErrTimeout}, Options{})

	p, err := svc.PreviewURL(context.Background(), "https://www.kurashiru.com/recipes/x")
	if err != nil {
		t.Fatalf("PreviewURL() error = %v, want fallback not error", err)
	}
	if p.IsExisting {
		t.Error("IsExisting = true, want false")
	}
	if p.Domain != "www.kurashiru.com" {
		t.Errorf("Domain = %q", p.Domain)
	}
	if !strings.HasPrefix(p.Title, "kurashiru.com") {
		t.Errorf("Title = %q, want domain-derived fallback", p.Title)
	}
}

func TestPreviewInvalidURL(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, Options{})
	if _, err := svc.PreviewURL(context.Background(), "nope"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("PreviewURL() error = %v, want validation", err)
	}
}
