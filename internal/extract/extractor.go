// Package extract turns parsed listing pages into quote records.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/quotes/pkg/models"
	"github.com/rs/zerolog/log"
)

// Selectors locate the regions of a listing page
type Selectors struct {
	Quote  string `koanf:"quote"`
	Text   string `koanf:"text"`
	Author string `koanf:"author"`
	Tags   string `koanf:"tags"`
	Next   string `koanf:"next"`
}

// DefaultSelectors returns the selectors matching the public quotes site
func DefaultSelectors() Selectors {
	return Selectors{
		Quote:  ".quote",
		Text:   ".text",
		Author: ".author",
		Tags:   ".tags",
		Next:   ".next",
	}
}

// Extractor pulls quotes and the pagination indicator out of a document
type Extractor struct {
	sel Selectors
}

// New creates an Extractor; empty selectors fall back to the defaults
func New(sel Selectors) *Extractor {
	def := DefaultSelectors()
	if sel.Quote == "" {
		sel.Quote = def.Quote
	}
	if sel.Text == "" {
		sel.Text = def.Text
	}
	if sel.Author == "" {
		sel.Author = def.Author
	}
	if sel.Tags == "" {
		sel.Tags = def.Tags
	}
	if sel.Next == "" {
		sel.Next = def.Next
	}
	return &Extractor{sel: sel}
}

// Selectors returns the selectors in use
func (e *Extractor) Selectors() Selectors {
	return e.sel
}

// Extract returns every quote on the page together with its pagination signal.
// Number and URL are left for the caller, which knows which page it asked for.
func (e *Extractor) Extract(doc *goquery.Document) (models.Page, error) {
	quotes, err := e.Quotes(doc)
	if err != nil {
		return models.Page{}, err
	}
	return models.Page{
		Quotes:  quotes,
		HasNext: e.HasNext(doc),
	}, nil
}

// Quotes parses all quote blocks in document order. The first malformed block aborts.
func (e *Extractor) Quotes(doc *goquery.Document) ([]models.Quote, error) {
	if doc == nil {
		return nil, nil
	}

	blocks := doc.Find(e.sel.Quote)
	quotes := make([]models.Quote, 0, blocks.Length())

	var parseErr error
	blocks.EachWithBreak(func(i int, block *goquery.Selection) bool {
		q, err := e.parseBlock(i, block)
		if err != nil {
			parseErr = err
			return false
		}
		quotes = append(quotes, q)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return quotes, nil
}

// ParseQuote parses a single quote block
func (e *Extractor) ParseQuote(block *goquery.Selection) (models.Quote, error) {
	return e.parseBlock(0, block)
}

// HasNext reports whether the document advertises a following page
func (e *Extractor) HasNext(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	return doc.Find(e.sel.Next).Length() > 0
}

func (e *Extractor) parseBlock(index int, block *goquery.Selection) (models.Quote, error) {
	text, err := selectOne(block, e.sel.Text, models.FieldText, index)
	if err != nil {
		return models.Quote{}, err
	}
	author, err := selectOne(block, e.sel.Author, models.FieldAuthor, index)
	if err != nil {
		return models.Quote{}, err
	}
	tagText, err := selectOne(block, e.sel.Tags, models.FieldTags, index)
	if err != nil {
		return models.Quote{}, err
	}

	if text == "" || author == "" {
		log.Debug().
			Int("block", index).
			Str("author", author).
			Msg("Quote block has an empty text or author region")
	}

	return models.Quote{
		Text:   text,
		Author: author,
		Tags:   SplitTags(tagText),
	}, nil
}

// SplitTags splits the tag region on whitespace and drops the leading label word
func SplitTags(regionText string) []string {
	fields := strings.Fields(regionText)
	if len(fields) <= 1 {
		return []string{}
	}
	return fields[1:]
}

// selectOne returns the text of the first element matching selector inside block
func selectOne(block *goquery.Selection, selector, field string, index int) (string, error) {
	match := block.Find(selector).First()
	if match.Length() == 0 {
		return "", &BlockParseError{Field: field, Selector: selector, Index: index}
	}
	return match.Text(), nil
}
