package urlutil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ResolveURL resolves a possibly-relative href against a base URL and returns a string
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}

// PageURL returns the address of the given listing page.
// Page 1 is the base address itself; later pages live under page/{n}
// relative to the base, which is always treated as a directory.
func PageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	dir := base
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return ResolveURL(dir, "page/"+strconv.Itoa(page))
}
