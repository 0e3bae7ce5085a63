package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/law-makers/quotes/pkg/models"
)

// ErrUnknownField is returned when the schema names a column Quote does not have
var ErrUnknownField = errors.New("unknown output field")

// SaveCSV writes quotes to a CSV file at path, creating or truncating it.
// The file is closed on every path; the first write, flush or close error wins.
func SaveCSV(quotes []models.Quote, path string, schema []string) (err error) {
	if len(schema) == 0 {
		schema = models.QuoteFields()
	}
	if err := checkSchema(schema); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return WriteCSV(file, quotes, schema)
}

// WriteCSV writes a header row followed by one row per quote
func WriteCSV(w io.Writer, quotes []models.Quote, schema []string) error {
	if len(schema) == 0 {
		schema = models.QuoteFields()
	}
	if err := checkSchema(schema); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writer.Write(schema); err != nil {
		return err
	}

	row := make([]string, len(schema))
	for _, q := range quotes {
		for i, field := range schema {
			row[i] = fieldValue(q, field)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func checkSchema(schema []string) error {
	for _, field := range schema {
		switch field {
		case models.FieldText, models.FieldAuthor, models.FieldTags:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}
	return nil
}

func fieldValue(q models.Quote, field string) string {
	switch field {
	case models.FieldText:
		return q.Text
	case models.FieldAuthor:
		return q.Author
	case models.FieldTags:
		return FormatTags(q.Tags)
	}
	return ""
}

// FormatTags renders tags as a bracketed list of quoted strings, e.g. ['change', 'life'].
// Each element uses single quotes unless it contains a single quote and no double quote.
// Backslashes, the chosen quote and non-printable characters are escaped.
func FormatTags(tags []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, tag := range tags {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteTag(tag))
	}
	b.WriteByte(']')
	return b.String()
}

func quoteTag(s string) string {
	quote := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		quote = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
