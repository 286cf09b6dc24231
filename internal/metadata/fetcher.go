// Package metadata fetches a web page and scrapes a best-effort
// title/description/image from its OpenGraph, Twitter-card and plain HTML
// tags. Everything here is optional and partial: a failed fetch degrades the
// surrounding save, it never aborts it.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/recipejar/recipejar/internal/logger"
	"github.com/recipejar/recipejar/internal/utils"
)

const (
	maxRedirects   = 5
	maxBodyBytes   = 5 * 1024 * 1024 // 5MB cap on scraped pages
	maxTitleLen    = 255
	maxDescription = 500

	// Some recipe sites reject unidentified clients, so we look like a browser.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Fetch failure classes, surfaced distinctly so the HTTP layer can map them
// to 404/408/503. All of them are non-fatal to the save workflow.
var (
	ErrUnresolvable = errors.New("unable to reach the specified URL")
	ErrTimeout      = errors.New("request timeout - the website took too long to respond")
	ErrNoResponse   = errors.New("no response received from the website")
)

// RemoteStatusError reports a non-2xx/3xx response from the remote site.
type RemoteStatusError struct {
	StatusCode int
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("website returned error: %d", e.StatusCode)
}

// Metadata is the scraped result. Every field except Domain may be empty.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Domain      string `json:"domain"`
}

// Fetcher performs bounded-time page fetches.
type Fetcher struct {
	client *http.Client
	log    logger.Logger
}

func New(timeout time.Duration, log logger.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		log: log,
	}
}

// Fetch performs a single GET against rawURL and extracts page metadata.
// The body is parsed as HTML regardless of the declared content type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	src, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		classified := classify(err)
		f.log.Debug("metadata fetch failed",
			logger.String("url", src.String()),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return nil, classified
	}
	defer utils.Close(resp.Body)

	// 2xx and 3xx are fetchable; anything else carries the remote status.
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, &RemoteStatusError{StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := extract(doc, src)
	f.log.Debug("metadata extracted",
		logger.String("url", src.String()),
		logger.String("title", meta.Title),
		logger.Bool("has_image", meta.Image != ""),
		logger.Duration("elapsed", time.Since(start)))
	return meta, nil
}

// classify maps a transport error onto one of the fetch failure classes.
func classify(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrUnresolvable
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrNoResponse
}

// extract pulls title/description/image out of the parsed document using a
// fixed priority order, first match wins, independently per field.
func extract(doc *goquery.Document, src *url.URL) *Metadata {
	meta := &Metadata{Domain: src.Hostname()}

	// title: og:title > twitter:title > <title> text
	meta.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
		doc.Find("title").First().Text(),
	)

	// description: og:description > twitter:description > meta description
	meta.Description = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="twitter:description"]`),
		metaContent(doc, `meta[name="description"]`),
	)

	// image: og:image > twitter:image > twitter:image:src > first <img src>
	image := firstNonEmpty(
		metaContent(doc, `meta[property="og:image"]`),
		metaContent(doc, `meta[name="twitter:image"]`),
		metaContent(doc, `meta[name="twitter:image:src"]`),
	)
	if image == "" {
		image, _ = doc.Find("img[src]").First().Attr("src")
	}
	meta.Image = resolveImageURL(image, src)

	meta.Title = truncate(strings.TrimSpace(meta.Title), maxTitleLen)
	meta.Description = truncate(strings.TrimSpace(meta.Description), maxDescription)
	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

// resolveImageURL turns a scraped image reference into an absolute URL.
// Protocol-relative refs take the source scheme, root-relative ones the
// source origin, anything else resolves as a relative reference. Malformed
// results collapse to "" rather than propagating an error.
func resolveImageURL(raw string, src *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(raw, "//"):
		return src.Scheme + ":" + raw
	case strings.HasPrefix(raw, "/"):
		return src.Scheme + "://" + src.Host + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	default:
		ref, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return src.ResolveReference(ref).String()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
