// Package fetcher retrieves listing pages and parses them into documents.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/quotes/internal/ratelimit"
	urlutil "github.com/law-makers/quotes/internal/utils/url"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// HTTPFetcher fetches pages with plain GET requests against a base address
type HTTPFetcher struct {
	client    *http.Client
	baseURL   string
	limiter   ratelimit.Limiter
	userAgent string
}

// New creates an HTTPFetcher. limiter may be nil; userAgent is only sent when non-empty.
func New(client *http.Client, baseURL string, limiter ratelimit.Limiter, userAgent string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:    client,
		baseURL:   baseURL,
		limiter:   limiter,
		userAgent: userAgent,
	}
}

// Name returns the name of this fetcher
func (f *HTTPFetcher) Name() string {
	return "HTTPFetcher"
}

// PageURL returns the absolute address of the given page
func (f *HTTPFetcher) PageURL(page int) string {
	return urlutil.PageURL(f.baseURL, page)
}

// Fetch issues one GET for the page and parses the body as HTML
func (f *HTTPFetcher) Fetch(ctx context.Context, page int) (*goquery.Document, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pageURL := f.PageURL(page)
	start := time.Now()
	logger := log.Ctx(ctx)

	logger.Debug().
		Str("url", pageURL).
		Int("page", page).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	doc, err := parse(resp)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("%w: %v", ErrParse, err)}
	}

	logger.Debug().
		Str("url", pageURL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Fetch completed")

	return doc, nil
}

// parse transcodes the body to UTF-8 according to its declared charset and
// builds a document from the parsed node tree.
func parse(resp *http.Response) (*goquery.Document, error) {
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(body)
	if err != nil {
		return nil, err
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Url = resp.Request.URL
	return doc, nil
}
