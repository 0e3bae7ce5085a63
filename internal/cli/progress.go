package cli

import (
	"fmt"
	"io"

	"github.com/law-makers/quotes/pkg/models"
	"github.com/schollz/progressbar/v3"
)

// pageProgress renders a spinner that ticks once per extracted page
type pageProgress struct {
	bar    *progressbar.ProgressBar
	quotes int
}

func newPageProgress(w io.Writer) *pageProgress {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Fetching pages"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &pageProgress{bar: bar}
}

// Hook is passed to the exporter as a per-page callback
func (p *pageProgress) Hook(page models.Page) {
	p.quotes += len(page.Quotes)
	p.bar.Describe(fmt.Sprintf("Page %d, %d quotes", page.Number, p.quotes))
	_ = p.bar.Add(1)
}

func (p *pageProgress) Finish() {
	_ = p.bar.Finish()
}
