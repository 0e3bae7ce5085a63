package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/quotes/pkg/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFor picks the export format from the destination's extension; CSV is the default
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// SaveJSON writes quotes as an indented JSON array to path
func SaveJSON(quotes []models.Quote, path string) error {
	if quotes == nil {
		quotes = []models.Quote{}
	}
	content, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return err
	}
	content = append(content, '\n')
	return os.WriteFile(path, content, 0644)
}

// Save writes quotes to path in the format implied by its extension
func Save(quotes []models.Quote, path string, schema []string) error {
	switch FormatFor(path) {
	case FormatJSON:
		return SaveJSON(quotes, path)
	default:
		return SaveCSV(quotes, path, schema)
	}
}
