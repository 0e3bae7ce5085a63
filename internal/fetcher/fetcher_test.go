package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<!DOCTYPE html>
<html>
<head><title>Quotes to Scrape</title></head>
<body>
	<div class="quote">
		<span class="text">“Life is what happens.”</span>
		<small class="author">John Lennon</small>
	</div>
</body>
</html>`

func newTestFetcher(baseURL string) *HTTPFetcher {
	return New(&http.Client{Timeout: 5 * time.Second}, baseURL, nil, "")
}

func TestHTTPFetcher_Fetch_FirstPageIsBase(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(pageHTML))
	}))
	defer server.Close()

	doc, err := newTestFetcher(server.URL + "/").Fetch(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "/", gotPath)
	assert.Equal(t, "Quotes to Scrape", doc.Find("title").Text())
	assert.Equal(t, "John Lennon", doc.Find(".author").Text())
}

func TestHTTPFetcher_Fetch_LaterPagesUsePagePath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(pageHTML))
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL+"/").Fetch(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "/page/3", gotPath)
}

func TestHTTPFetcher_Fetch_NoCustomHeadersByDefault(t *testing.T) {
	var gotUA, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(pageHTML))
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, gotUA, "Go-http-client")
	assert.Empty(t, gotCookie)

	f := New(nil, server.URL, nil, "QuotesTest/1.0")
	_, err = f.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "QuotesTest/1.0", gotUA)
}

func TestHTTPFetcher_Fetch_Latin1Body(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Café" encoded as latin-1
		w.Write([]byte("<html><body><span class=\"author\">Caf\xe9</span></body></html>"))
	}))
	defer server.Close()

	doc, err := newTestFetcher(server.URL).Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Café", doc.Find(".author").Text())
}

func TestHTTPFetcher_Fetch_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).Fetch(context.Background(), 2)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.GetStatusCode())
	assert.True(t, errors.Is(err, ErrStatus))
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "/page/2")
}

func TestHTTPFetcher_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	_, err := newTestFetcher(baseURL).Fetch(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, errors.Is(err, ErrStatus))
}

func TestHTTPFetcher_Fetch_InvalidPage(t *testing.T) {
	_, err := newTestFetcher("http://example.com/").Fetch(context.Background(), 0)
	assert.True(t, errors.Is(err, ErrInvalidPage))
}

func TestHTTPFetcher_Fetch_OneRequestPerCall(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(pageHTML))
	}))
	defer server.Close()

	f := newTestFetcher(server.URL)
	for page := 1; page <= 3; page++ {
		_, err := f.Fetch(context.Background(), page)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

type countingLimiter struct{ calls []string }

func (c *countingLimiter) Wait(_ context.Context, urlStr string) error {
	c.calls = append(c.calls, urlStr)
	return nil
}

func TestHTTPFetcher_Fetch_UsesLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageHTML))
	}))
	defer server.Close()

	lim := &countingLimiter{}
	f := New(nil, server.URL+"/", lim, "")
	_, err := f.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{server.URL + "/page/2"}, lim.calls)
}

func TestHTTPFetcher_Name(t *testing.T) {
	if name := newTestFetcher("http://example.com").Name(); name != "HTTPFetcher" {
		t.Errorf("Expected name 'HTTPFetcher', got '%s'", name)
	}
}
