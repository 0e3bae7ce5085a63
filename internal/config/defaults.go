package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel     = "info"
	DefaultJSONLog      = false
	DefaultBaseURL      = "https://quotes.toscrape.com/"
	DefaultOutputPath   = "quotes.csv"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultUserAgent    = ""
	DefaultMaxPages     = 0
	DefaultRateLimitRPS = 0.0
	DefaultRateBurst    = 1

	// EnvPrefix is the prefix of environment variables read by Load
	EnvPrefix = "QUOTES_"
)

// defaults returns the default values keyed the way the config file is
func defaults() map[string]any {
	return map[string]any{
		"log_level":    DefaultLogLevel,
		"json_log":     DefaultJSONLog,
		"base_url":     DefaultBaseURL,
		"output":       DefaultOutputPath,
		"http_timeout": DefaultHTTPTimeout.String(),
		"user_agent":   DefaultUserAgent,
		"max_pages":    DefaultMaxPages,
		"rps":          DefaultRateLimitRPS,
		"burst":        DefaultRateBurst,
		"schema":       []string{"text", "author", "tags"},

		"selectors.quote":  ".quote",
		"selectors.text":   ".text",
		"selectors.author": ".author",
		"selectors.tags":   ".tags",
		"selectors.next":   ".next",
	}
}
