package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/clip2md/core"
	"github.com/gaurav-prasanna/clip2md/core/fetch"
)

func TestScope(t *testing.T) {
	start, err := url.Parse("https://wiki.example.com/wiki/spaces/ENG/overview")
	require.NoError(t, err)
	s := NewScope(start)
	assert.Equal(t, "/wiki/spaces/ENG/", s.Prefix)

	assert.True(t, s.Contains("https://wiki.example.com/wiki/spaces/ENG/runbook"))
	assert.True(t, s.Contains("https://wiki.example.com/wiki/spaces/ENG"))
	assert.False(t, s.Contains("https://wiki.example.com/wiki/spaces/OPS/runbook"))
	assert.False(t, s.Contains("https://other.example.com/wiki/spaces/ENG/runbook"))
	assert.False(t, s.Contains("ftp://wiki.example.com/wiki/spaces/ENG/x"))

	root, err := url.Parse("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "/", NewScope(root).Prefix)
}

func TestRules(t *testing.T) {
	assert.True(t, IsStaticAsset("https://x.com/logo.PNG"))
	assert.True(t, IsStaticAsset("https://x.com/download/attachments/123/notes.txt"))
	assert.False(t, IsStaticAsset("https://x.com/docs/intro"))

	assert.Equal(t, "https://x.com/docs", NormalizeURL("https://x.com/docs/#top"))
	assert.Equal(t, "https://x.com/", NormalizeURL("https://x.com/"))
	assert.Equal(t, "https://x.com/p?id=1", NormalizeURL("https://x.com/p?id=1"))
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	assert.True(t, q.Add("a"))
	assert.True(t, q.Add("b"))
	assert.False(t, q.Add("a"))
	assert.Equal(t, 2, q.Len())

	require.True(t, q.HasNext())
	assert.Equal(t, "a", q.Next())
	assert.Equal(t, "b", q.Next())
	assert.False(t, q.HasNext())
	assert.Equal(t, []string{"a", "b"}, q.All())
}

func TestResolveURL(t *testing.T) {
	base, _ := url.Parse("https://x.com/docs/a")
	assert.Equal(t, "https://x.com/docs/b", resolveURL("b", base))
	assert.Equal(t, "https://x.com/c", resolveURL("/c#frag", base))
	assert.Equal(t, "", resolveURL("#frag", base))
	assert.Equal(t, "", resolveURL("mailto:me@x.com", base))
	assert.Equal(t, "", resolveURL("JavaScript:void(0)", base))
}

func site(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /docs/private\n")
	})
	page := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc("/docs/start", page(`<a href="a">A</a><a href="/docs/b#x">B</a><a href="/other">O</a><a href="private">P</a><a href="logo.png">L</a>`))
	mux.HandleFunc("/docs/a", page(`<a href="start">back</a><a href="broken">X</a>`))
	mux.HandleFunc("/docs/b", page(`<p>b</p>`))
	mux.HandleFunc("/docs/private", page(`<p>secret</p>`))
	mux.HandleFunc("/other", page(`<p>other</p>`))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func urls(pages []*core.FetchResult) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.URL)
	}
	return out
}

func TestDiscover(t *testing.T) {
	srv := site(t)
	c := New(fetch.New(), WithHTTPClient(srv.Client()))

	pages, err := c.Discover(context.Background(), srv.URL+"/docs/start")
	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/docs/start",
		srv.URL + "/docs/a",
		srv.URL + "/docs/b",
	}, urls(pages))
}

func TestDiscoverIgnoreRobotsAndLimit(t *testing.T) {
	srv := site(t)

	pages, err := New(fetch.New(), IgnoreRobots(true)).Discover(context.Background(), srv.URL+"/docs/start")
	require.NoError(t, err)
	assert.Contains(t, urls(pages), srv.URL+"/docs/private")

	pages, err = New(fetch.New(), WithMaxPages(2)).Discover(context.Background(), srv.URL+"/docs/start")
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestDiscoverErrors(t *testing.T) {
	srv := site(t)
	c := New(fetch.New())

	_, err := c.Discover(context.Background(), srv.URL+"/docs/private")
	assert.ErrorContains(t, err, "robots.txt disallows")

	_, err = c.Discover(context.Background(), srv.URL+"/docs/missing")
	assert.ErrorContains(t, err, "unexpected status 404")

	_, err = c.Discover(context.Background(), "file:///etc/passwd")
	assert.ErrorContains(t, err, "not http(s)")
}
