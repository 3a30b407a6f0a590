// Package crawl discovers the pages converted by `convert --all`.
// Starting from one page it follows links breadth-first, staying on the
// same host under the start page's path prefix and honoring robots.txt.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"

	"github.com/gaurav-prasanna/clip2md/core"
)

const DefaultMaxPages = 100

// Crawler walks a documentation space page by page.
type Crawler struct {
	fetcher      core.Fetcher
	client       *http.Client
	userAgent    string
	maxPages     int
	ignoreRobots bool
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages caps the number of pages fetched.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithUserAgent sets the agent name matched against robots.txt groups.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient sets the client used for robots.txt and sitemap requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) { c.client = client }
}

// IgnoreRobots disables robots.txt checks.
func IgnoreRobots(ignore bool) Option {
	return func(c *Crawler) { c.ignoreRobots = ignore }
}

// New creates a Crawler that fetches pages with fetcher.
func New(fetcher core.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:   fetcher,
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: "clip2md",
		maxPages:  DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sitemapURL holds a URL from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is the root element of a sitemap.xml.
type sitemapIndex struct {
	URLs []sitemapURL `xml:"url"`
}

// Discover fetches the start page and every in-scope page reachable from
// it, in BFS order. Pages that fail to fetch are skipped. The start page
// itself must be fetchable.
func (c *Crawler) Discover(ctx context.Context, startURL string) ([]*core.FetchResult, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parsing start URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, fmt.Errorf("start URL %q is not http(s)", startURL)
	}
	scope := NewScope(start)

	var robots *robotstxt.Group
	if !c.ignoreRobots {
		robots, err = fetchRobots(ctx, c.client, start, c.userAgent)
		if err != nil {
			slog.Debug("robots.txt unavailable, crawling without it", "error", err)
		}
	}
	allowed := func(u string) bool {
		if !scope.Contains(u) || IsStaticAsset(u) {
			return false
		}
		if robots == nil {
			return true
		}
		parsed, err := url.Parse(u)
		return err == nil && robots.Test(parsed.EscapedPath())
	}

	if robots != nil && !robots.Test(start.EscapedPath()) {
		return nil, fmt.Errorf("robots.txt disallows %s", start.Path)
	}

	queue := NewQueue()
	queue.Add(NormalizeURL(startURL))
	for _, u := range c.sitemap(ctx, start) {
		if allowed(u) {
			queue.Add(NormalizeURL(u))
		}
	}

	var pages []*core.FetchResult
	for queue.HasNext() && len(pages) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		current := queue.Next()

		result, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			if len(pages) == 0 && current == NormalizeURL(startURL) {
				return nil, err
			}
			slog.Warn("skipping page", "url", current, "error", err)
			continue
		}
		result.URL = current
		pages = append(pages, result)

		links, err := extractLinks(result.HTML, current)
		if err != nil {
			continue
		}
		for _, link := range links {
			if allowed(link) {
				queue.Add(NormalizeURL(link))
			}
		}
	}

	slog.Debug("crawl finished", "pages", len(pages), "discovered", queue.Len())
	return pages, nil
}

// sitemap returns the URLs listed in the host's sitemap.xml, if any.
func (c *Crawler) sitemap(ctx context.Context, start *url.URL) []string {
	sitemapURL := (&url.URL{Scheme: start.Scheme, Host: start.Host, Path: "/sitemap.xml"}).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil
	}
	var sm sitemapIndex
	if err := xml.Unmarshal(body, &sm); err != nil {
		return nil
	}

	urls := make([]string, 0, len(sm.URLs))
	for _, u := range sm.URLs {
		urls = append(urls, strings.TrimSpace(u.Loc))
	}
	return urls
}

// extractLinks extracts all href values from <a> tags, resolving relative URLs.
func extractLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(href, base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	for _, scheme := range []string{"mailto:", "javascript:", "tel:", "data:"} {
		if strings.HasPrefix(strings.ToLower(href), scheme) {
			return ""
		}
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
