package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "quotes", RunE: func(*cobra.Command, []string) error { return nil }}
	RegisterFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.JSONLog)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultOutputPath, cfg.OutputPath)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Empty(t, cfg.UserAgent)
	assert.Zero(t, cfg.MaxPages)
	assert.Zero(t, cfg.RequestsPerSecond)
	assert.Equal(t, []string{"text", "author", "tags"}, cfg.Schema)
	assert.Equal(t, ".quote", cfg.Selectors.Quote)
	assert.Equal(t, ".next", cfg.Selectors.Next)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUOTES_BASE_URL", "http://localhost:9000/")
	t.Setenv("QUOTES_MAX_PAGES", "4")
	t.Setenv("QUOTES_HTTP_TIMEOUT", "5s")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/", cfg.BaseURL)
	assert.Equal(t, 4, cfg.MaxPages)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.yaml")
	content := `
base_url: http://file.example/
max_pages: 7
rps: 2.5
selectors:
  next: "li.next > a"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("QUOTES_MAX_PAGES", "9")

	cmd := newCmd(t, "--config", path, "--base-url", "http://flag.example/", "-v")
	cfg, err := Load(cmd)
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example/", cfg.BaseURL)
	assert.Equal(t, 9, cfg.MaxPages)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, "li.next > a", cfg.Selectors.Next)
	assert.Equal(t, ".quote", cfg.Selectors.Quote)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	t.Setenv("QUOTES_BASE_URL", "http://env.example/")

	cfg, err := Load(newCmd(t))
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/", cfg.BaseURL)
}

func TestLoad_Flags(t *testing.T) {
	cmd := newCmd(t, "--timeout", "0", "--max-pages", "3", "--rps", "1", "--user-agent", "Bot/1", "--json", "-q")
	cfg, err := Load(cmd)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, 1.0, cfg.RequestsPerSecond)
	assert.Equal(t, "Bot/1", cfg.UserAgent)
	assert.True(t, cfg.JSONLog)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_TimeoutFlag(t *testing.T) {
	cfg, err := Load(newCmd(t, "--timeout", "45s"))
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
}

func TestRegisterFlags_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"timeout", []string{"--timeout", "forever"}},
		{"max pages", []string{"--max-pages", "many"}},
		{"rps", []string{"--rps", "fast"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "quotes"}
			RegisterFlags(cmd)
			assert.Error(t, cmd.ParseFlags(tt.args))
		})
	}
}

func TestLoad_FlagOfWrongTypeIsReported(t *testing.T) {
	cmd := &cobra.Command{Use: "quotes"}
	cmd.Flags().String("timeout", "", "")
	require.NoError(t, cmd.ParseFlags([]string{"--timeout", "forever"}))

	_, err := Load(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config: timeout")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	cmd := newCmd(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad scheme", map[string]string{"QUOTES_BASE_URL": "ftp://example.com/"}, "base_url"},
		{"not a url", map[string]string{"QUOTES_BASE_URL": "quotes"}, "baseurl"},
		{"negative pages", map[string]string{"QUOTES_MAX_PAGES": "-1"}, "maxpages must be at least 0"},
		{"bad level", map[string]string{"QUOTES_LOG_LEVEL": "loud"}, "loglevel must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
