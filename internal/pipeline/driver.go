// Package pipeline drives the sequential fetch/extract loop over listing pages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/quotes/pkg/models"
	"github.com/rs/zerolog/log"
)

// ErrPageLimit is returned alongside the accumulated quotes when the page bound
// stops a run whose last page still advertised a successor.
var ErrPageLimit = errors.New("page limit reached before last page")

// Fetcher retrieves a parsed page by number
type Fetcher interface {
	Fetch(ctx context.Context, page int) (*goquery.Document, error)
	PageURL(page int) string
}

// Extractor turns a parsed page into its quotes and pagination signal
type Extractor interface {
	Extract(doc *goquery.Document) (models.Page, error)
}

// Option configures a Driver
type Option func(*Driver)

// WithMaxPages bounds the number of pages fetched. Zero means unbounded.
func WithMaxPages(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxPages = n
		}
	}
}

// WithHasNext replaces the extractor's pagination predicate
func WithHasNext(fn func(*goquery.Document) bool) Option {
	return func(d *Driver) {
		if fn != nil {
			d.hasNext = fn
		}
	}
}

// WithPageHook registers a callback invoked after each page is extracted
func WithPageHook(fn func(models.Page)) Option {
	return func(d *Driver) {
		if fn != nil {
			d.hooks = append(d.hooks, fn)
		}
	}
}

// Driver runs the export loop. Pages are fetched strictly one at a time.
type Driver struct {
	fetcher   Fetcher
	extractor Extractor
	hasNext   func(*goquery.Document) bool
	maxPages  int
	hooks     []func(models.Page)
}

// New creates a Driver over the given fetcher and extractor
func New(f Fetcher, x Extractor, opts ...Option) *Driver {
	d := &Driver{
		fetcher:   f,
		extractor: x,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run visits pages starting at 1 until a page lacks the pagination indicator
// and returns all quotes in page order, then in-page order.
//
// Any fetch or extraction failure aborts the run and no quotes are returned.
// When the page bound stops the run early, the quotes gathered so far are
// returned together with ErrPageLimit.
func (d *Driver) Run(ctx context.Context) ([]models.Quote, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	logger := log.Ctx(ctx)
	var all []models.Quote

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := d.fetcher.Fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		result, err := d.extractor.Extract(doc)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		result.Number = page
		result.URL = d.fetcher.PageURL(page)
		if d.hasNext != nil {
			result.HasNext = d.hasNext(doc)
		}
		quotes, next := result.Quotes, result.HasNext
		all = append(all, quotes...)

		for _, hook := range d.hooks {
			hook(result)
		}

		logger.Debug().
			Int("page", page).
			Int("quotes", len(quotes)).
			Int("total", len(all)).
			Bool("has_next", next).
			Msg("Page extracted")

		if !next {
			logger.Debug().
				Int("pages", page).
				Int("quotes", len(all)).
				Dur("elapsed", time.Since(start)).
				Msg("Reached last page")
			return all, nil
		}

		if d.maxPages > 0 && page >= d.maxPages {
			logger.Warn().
				Int("max_pages", d.maxPages).
				Int("quotes", len(all)).
				Msg("Stopping at page limit")
			return all, ErrPageLimit
		}
	}
}
